package certificate

import "strings"

const (
	// DefaultLogoAsset и DefaultSignatureAsset имена файлов, на которые
	// ссылается содержимое по умолчанию
	DefaultLogoAsset      = "logo.png"
	DefaultSignatureAsset = "sign.png"

	defaultFont = "alexandria"
)

// Labels подписи сертификата на одном языке
type Labels struct {
	Title           string `json:"title"`
	Congratulations string `json:"congratulations"`
	Completed       string `json:"completed"`
	Closing         string `json:"closing"`
	Signatory       string `json:"signatory"`
	CertificateID   string `json:"certificateId"`
}

var labels = map[Language]Labels{
	LanguageEN: {
		Title:           "Certificate of Completion",
		Congratulations: "Congratulations, [certificate-name]",
		Completed:       "Course completed on [certificate-date] - [certificate-duration]",
		Closing:         "By continuing to learn, you have expanded your perspective, sharpened your skills, and made yourself even more in demand.",
		Signatory:       "Vice President of Educational Content",
		CertificateID:   "Certificate ID [certificate-id]",
	},
	LanguageAR: {
		Title:           "شهادة اتمام",
		Congratulations: "تهانينا, [certificate-name]",
		Completed:       "اكتملت الدورة بتاريخ [certificate-date] - [certificate-duration]",
		Closing:         " من خلال الاستمرار في التعلم، قمت بتوسيع منظورك، وصقل مهاراتك، وجعلت نفسك أكثر طلبًا.",
		Signatory:       "نائب الرئيس للمحتوى التعليمي في زدني",
		CertificateID:   "رقم تعريف الوثيقة [certificate-id]",
	},
}

// LabelsFor возвращает подписи для языка, для неизвестного языка английские
func LabelsFor(lang Language) Labels {
	if l, ok := labels[Language(strings.ToUpper(string(lang)))]; ok {
		return l
	}
	return labels[LanguageEN]
}

func lineAttrs(lang Language, header int) map[string]any {
	attrs := map[string]any{
		"align":     "center",
		"direction": lang.Direction(),
		"font":      defaultFont,
	}
	if header > 0 {
		attrs["header"] = float64(header)
	}
	return attrs
}

func textOp(text string, lang Language, header int) Op {
	return Op{Insert: TextInsert(text + "\n"), Attributes: lineAttrs(lang, header)}
}

func newlineOp(count int, lang Language) Op {
	return Op{Insert: TextInsert(strings.Repeat("\n", count)), Attributes: lineAttrs(lang, 0)}
}

func imageOp(src string, lang Language, height string) Op {
	attrs := lineAttrs(lang, 0)
	attrs["height"] = height
	return Op{Insert: ImageInsert(src), Attributes: attrs}
}

// DefaultContentFor содержимое сертификата по умолчанию для языка
func DefaultContentFor(lang Language) Content {
	l := LabelsFor(lang)
	return Content{Ops: []Op{
		imageOp(DefaultLogoAsset, lang, "64px"),
		newlineOp(2, lang),
		textOp(l.Title, lang, 2),
		textOp(l.Congratulations, lang, 2),
		newlineOp(1, lang),
		textOp("[certificate-subject]", lang, 1),
		newlineOp(1, lang),
		textOp(l.Completed, lang, 0),
		newlineOp(1, lang),
		textOp(l.Closing, lang, 0),
		newlineOp(1, lang),
		imageOp(DefaultSignatureAsset, lang, "70px"),
		newlineOp(2, lang),
		textOp(l.Signatory, lang, 0),
		newlineOp(5, lang),
		textOp(l.CertificateID, lang, 0),
	}}
}

// DefaultContent содержимое по умолчанию на арабском
func DefaultContent() Content {
	return DefaultContentFor(LanguageAR)
}

// DefaultDocument шаблон, с которого начинает редактор
func DefaultDocument() Document {
	settings := Settings{
		Type:        "completion",
		Language:    LanguageAR,
		Orientation: OrientationHorizontal,
	}
	theme := Theme{
		Name:            ThemeBorderWithoutSideImage,
		BackgroundColor: "#ffffff",
		BorderColor:     "#1f3b73",
	}
	return Encode(settings, theme, DefaultContent())
}
