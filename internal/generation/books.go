package generation

// Book is one New Testament book and its chapter count.
type Book struct {
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
}

var newTestament = []Book{
	{"Matthew", 28},
	{"Mark", 16},
	{"Luke", 24},
	{"John", 21},
	{"Acts", 28},
	{"Romans", 16},
	{"1 Corinthians", 16},
	{"2 Corinthians", 13},
	{"Galatians", 6},
	{"Ephesians", 6},
	{"Philippians", 4},
	{"Colossians", 4},
	{"1 Thessalonians", 5},
	{"2 Thessalonians", 3},
	{"1 Timothy", 6},
	{"2 Timothy", 4},
	{"Titus", 3},
	{"Philemon", 1},
	{"Hebrews", 13},
	{"James", 5},
	{"1 Peter", 5},
	{"2 Peter", 3},
	{"1 John", 5},
	{"2 John", 1},
	{"3 John", 1},
	{"Jude", 1},
	{"Revelation", 22},
}

// Books returns the catalog in canonical order.
func Books() []Book {
	out := make([]Book, len(newTestament))
	copy(out, newTestament)
	return out
}

// LookupBook finds a book by exact name.
func LookupBook(name string) (Book, bool) {
	for _, b := range newTestament {
		if b.Name == name {
			return b, true
		}
	}
	return Book{}, false
}

// IsKnownBook reports whether name is in the catalog.
func IsKnownBook(name string) bool {
	_, ok := LookupBook(name)
	return ok
}

// ValidChapter reports whether chapter exists in the named book.
func ValidChapter(name string, chapter int) bool {
	b, ok := LookupBook(name)
	return ok && chapter >= 1 && chapter <= b.Chapters
}
