package report

import (
	"path"
	"strconv"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

// Languages folds per-path touch counts into per-language counts.
// Vendored paths and paths enry cannot classify are skipped.
func Languages(modules map[string]int, n int) []stats.Count {
	byLang := make(map[string]int)

	for p, touches := range modules {
		if enry.IsVendor(p) {
			continue
		}

		lang := enry.GetLanguage(path.Base(p), nil)
		if lang == "" {
			continue
		}

		byLang[lang] += touches
	}

	return stats.Top(byLang, n)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
