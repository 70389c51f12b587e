package certificate

// PageOrientation ориентация итогового файла
type PageOrientation string

const (
	PageLandscape PageOrientation = "landscape"
	PagePortrait  PageOrientation = "portrait"
	PageSquare    PageOrientation = "square"
)

// Размер страницы letter в пунктах
const (
	LetterWidthPt  = 612.0
	LetterHeightPt = 792.0
)

// PageOrientationFor выбирает ориентацию по размерам растра в пикселях
func PageOrientationFor(width, height int) PageOrientation {
	switch {
	case width > height:
		return PageLandscape
	case width < height:
		return PagePortrait
	default:
		return PageSquare
	}
}

// Placement положение растра на странице, в пунктах
type Placement struct {
	Orientation PageOrientation
	PageWidth   float64
	PageHeight  float64
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

// FitToPage вписывает растр в страницу letter с сохранением пропорций
// и центрирует его. Для альбомной ориентации страница поворачивается.
func FitToPage(width, height int) Placement {
	orientation := PageOrientationFor(width, height)
	pageW, pageH := LetterWidthPt, LetterHeightPt
	if orientation == PageLandscape {
		pageW, pageH = pageH, pageW
	}

	p := Placement{Orientation: orientation, PageWidth: pageW, PageHeight: pageH}
	if width <= 0 || height <= 0 {
		return p
	}

	scale := pageW / float64(width)
	if s := pageH / float64(height); s < scale {
		scale = s
	}
	p.Width = float64(width) * scale
	p.Height = float64(height) * scale
	p.X = (pageW - p.Width) / 2
	p.Y = (pageH - p.Height) / 2
	return p
}
