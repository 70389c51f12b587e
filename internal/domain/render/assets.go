package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"certificate-service-go/internal/pkg/gotenberg"
)

// LoadAssets читает файлы каталога, на которые страница ссылается по имени
// (логотип, подпись). Подкаталоги и скрытые файлы пропускаются.
func LoadAssets(dir string) ([]gotenberg.Asset, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets dir: %w", err)
	}

	var assets []gotenberg.Asset
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", e.Name(), err)
		}
		assets = append(assets, gotenberg.Asset{Name: e.Name(), Data: data})
	}
	return assets, nil
}
