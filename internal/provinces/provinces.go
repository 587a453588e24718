// Package provinces provides the canonical table of the 81 Turkish
// provinces and helpers for normalizing province names found in source
// files, which are frequently typed without Turkish characters.
package provinces

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"agrozoom/internal/dataset"
)

// canonical maps the ASCII-folded lowercase name to the official spelling.
var canonical = map[string]string{
	"adana":          "Adana",
	"adiyaman":       "Adıyaman",
	"afyonkarahisar": "Afyonkarahisar",
	"agri":           "Ağrı",
	"amasya":         "Amasya",
	"ankara":         "Ankara",
	"antalya":        "Antalya",
	"artvin":         "Artvin",
	"aydin":          "Aydın",
	"balikesir":      "Balıkesir",
	"bilecik":        "Bilecik",
	"bingol":         "Bingöl",
	"bitlis":         "Bitlis",
	"bolu":           "Bolu",
	"burdur":         "Burdur",
	"bursa":          "Bursa",
	"canakkale":      "Çanakkale",
	"cankiri":        "Çankırı",
	"corum":          "Çorum",
	"denizli":        "Denizli",
	"diyarbakir":     "Diyarbakır",
	"edirne":         "Edirne",
	"elazig":         "Elazığ",
	"erzincan":       "Erzincan",
	"erzurum":        "Erzurum",
	"eskisehir":      "Eskişehir",
	"gaziantep":      "Gaziantep",
	"giresun":        "Giresun",
	"gumushane":      "Gümüşhane",
	"hakkari":        "Hakkâri",
	"hatay":          "Hatay",
	"isparta":        "Isparta",
	"mersin":         "Mersin",
	"istanbul":       "İstanbul",
	"izmir":          "İzmir",
	"kars":           "Kars",
	"kastamonu":      "Kastamonu",
	"kayseri":        "Kayseri",
	"kirklareli":     "Kırklareli",
	"kirsehir":       "Kırşehir",
	"kocaeli":        "Kocaeli",
	"konya":          "Konya",
	"kutahya":        "Kütahya",
	"malatya":        "Malatya",
	"manisa":         "Manisa",
	"kahramanmaras":  "Kahramanmaraş",
	"mardin":         "Mardin",
	"mugla":          "Muğla",
	"mus":            "Muş",
	"nevsehir":       "Nevşehir",
	"nigde":          "Niğde",
	"ordu":           "Ordu",
	"rize":           "Rize",
	"sakarya":        "Sakarya",
	"samsun":         "Samsun",
	"siirt":          "Siirt",
	"sinop":          "Sinop",
	"sivas":          "Sivas",
	"tekirdag":       "Tekirdağ",
	"tokat":          "Tokat",
	"trabzon":        "Trabzon",
	"tunceli":        "Tunceli",
	"sanliurfa":      "Şanlıurfa",
	"usak":           "Uşak",
	"van":            "Van",
	"yozgat":         "Yozgat",
	"zonguldak":      "Zonguldak",
	"aksaray":        "Aksaray",
	"bayburt":        "Bayburt",
	"karaman":        "Karaman",
	"kirikkale":      "Kırıkkale",
	"batman":         "Batman",
	"sirnak":         "Şırnak",
	"bartin":         "Bartın",
	"ardahan":        "Ardahan",
	"igdir":          "Iğdır",
	"yalova":         "Yalova",
	"karabuk":        "Karabük",
	"kilis":          "Kilis",
	"osmaniye":       "Osmaniye",
	"duzce":          "Düzce",
}

// foldTransformer strips combining marks after canonical decomposition,
// which folds ç, ğ, ö, ş, ü, â and the dotted İ to their ASCII bases.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a province name and folds Turkish characters to ASCII.
func Fold(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	// Dotless ı has no decomposition, so it is mapped directly.
	s = strings.ReplaceAll(s, "ı", "i")
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return s
}

// Canonical returns the official spelling for any recognizable rendering of
// a province name.
func Canonical(name string) (string, bool) {
	official, ok := canonical[Fold(name)]
	return official, ok
}

// Count returns the number of provinces in the table.
func Count() int {
	return len(canonical)
}

// NormalizeColumn rewrites every recognizable province name in the named
// column to its official spelling. Unrecognized values and non-text cells
// are left alone; an absent column is a no-op. Returns the number of cells
// rewritten.
func NormalizeColumn(ds *dataset.Dataset, column string) int {
	col, ok := ds.Column(column)
	if !ok {
		return 0
	}
	changed := 0
	for i, v := range col.Values {
		s, ok := v.Text()
		if !ok {
			continue
		}
		if official, found := Canonical(s); found && official != s {
			col.Values[i] = dataset.Str(official)
			changed++
		}
	}
	return changed
}
