// Package canon holds the master book-code manifest and the per-source
// lookup tables that translate site-specific book names into canonical codes.
package canon

// ManifestVersion identifies the master list. Changing Master is a breaking
// change for validation and must bump this value.
const ManifestVersion = "2025.1"

// Book is one entry of the master manifest.
type Book struct {
	Code     string
	Name     string
	Chapters int
	Deutero  bool
}

// Master lists the 73 canonical books in canonical order.
var Master = []Book{
	{"Gen", "Genesis", 50, false},
	{"Exod", "Exodus", 40, false},
	{"Lev", "Leviticus", 27, false},
	{"Num", "Numbers", 36, false},
	{"Deut", "Deuteronomy", 34, false},
	{"Josh", "Joshua", 24, false},
	{"Judg", "Judges", 21, false},
	{"Ruth", "Ruth", 4, false},
	{"1Sam", "1 Samuel", 31, false},
	{"2Sam", "2 Samuel", 24, false},
	{"1Kgs", "1 Kings", 22, false},
	{"2Kgs", "2 Kings", 25, false},
	{"1Chr", "1 Chronicles", 29, false},
	{"2Chr", "2 Chronicles", 36, false},
	{"Ezra", "Ezra", 10, false},
	{"Neh", "Nehemiah", 13, false},
	{"Tob", "Tobit", 14, true},
	{"Jdt", "Judith", 16, true},
	{"Esth", "Esther", 10, false},
	{"1Macc", "1 Maccabees", 16, true},
	{"2Macc", "2 Maccabees", 15, true},
	{"Job", "Job", 42, false},
	{"Ps", "Psalms", 150, false},
	{"Prov", "Proverbs", 31, false},
	{"Eccl", "Ecclesiastes", 12, false},
	{"Song", "Song of Songs", 8, false},
	{"Wis", "Wisdom", 19, true},
	{"Sir", "Sirach", 51, true},
	{"Isa", "Isaiah", 66, false},
	{"Jer", "Jeremiah", 52, false},
	{"Lam", "Lamentations", 5, false},
	{"Bar", "Baruch", 6, true},
	{"Ezek", "Ezekiel", 48, false},
	{"Dan", "Daniel", 14, false},
	{"Hos", "Hosea", 14, false},
	{"Joel", "Joel", 3, false},
	{"Amos", "Amos", 9, false},
	{"Obad", "Obadiah", 1, false},
	{"Jonah", "Jonah", 4, false},
	{"Mic", "Micah", 7, false},
	{"Nah", "Nahum", 3, false},
	{"Hab", "Habakkuk", 3, false},
	{"Zeph", "Zephaniah", 3, false},
	{"Hag", "Haggai", 2, false},
	{"Zech", "Zechariah", 14, false},
	{"Mal", "Malachi", 4, false},
	{"Matt", "Matthew", 28, false},
	{"Mark", "Mark", 16, false},
	{"Luke", "Luke", 24, false},
	{"John", "John", 21, false},
	{"Acts", "Acts", 28, false},
	{"Rom", "Romans", 16, false},
	{"1Cor", "1 Corinthians", 16, false},
	{"2Cor", "2 Corinthians", 13, false},
	{"Gal", "Galatians", 6, false},
	{"Eph", "Ephesians", 6, false},
	{"Phil", "Philippians", 4, false},
	{"Col", "Colossians", 4, false},
	{"1Thess", "1 Thessalonians", 5, false},
	{"2Thess", "2 Thessalonians", 3, false},
	{"1Tim", "1 Timothy", 6, false},
	{"2Tim", "2 Timothy", 4, false},
	{"Titus", "Titus", 3, false},
	{"Phlm", "Philemon", 1, false},
	{"Heb", "Hebrews", 13, false},
	{"Jas", "James", 5, false},
	{"1Pet", "1 Peter", 5, false},
	{"2Pet", "2 Peter", 3, false},
	{"1John", "1 John", 5, false},
	{"2John", "2 John", 1, false},
	{"3John", "3 John", 1, false},
	{"Jude", "Jude", 1, false},
	{"Rev", "Revelation", 22, false},
}

var masterIndex = func() map[string]int {
	idx := make(map[string]int, len(Master))
	for i, b := range Master {
		idx[b.Code] = i
	}
	return idx
}()

// Codes returns the master codes in canonical order.
func Codes() []string {
	codes := make([]string, len(Master))
	for i, b := range Master {
		codes[i] = b.Code
	}
	return codes
}

func IsCanonical(code string) bool {
	_, ok := masterIndex[code]
	return ok
}

// Index returns the canonical position of code, or -1.
func Index(code string) int {
	if i, ok := masterIndex[code]; ok {
		return i
	}
	return -1
}

// Name returns the English display name of code.
func Name(code string) (string, bool) {
	i, ok := masterIndex[code]
	if !ok {
		return "", false
	}
	return Master[i].Name, true
}

// Less orders codes canonically; unknown codes sort after known ones,
// alphabetically.
func Less(a, b string) bool {
	ia, ib := Index(a), Index(b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia < ib
	case ia >= 0:
		return true
	case ib >= 0:
		return false
	default:
		return a < b
	}
}
