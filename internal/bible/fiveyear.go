// Package bible — fiveyear.go описывает структуру пятилетнего плана:
// пять годовых групп, у каждой фокус и упорядоченный список книг.
package bible

// YearGroup — один год плана.
type YearGroup struct {
	Year  int      `json:"year"`
	Focus string   `json:"focus"`
	Books []string `json:"books"`
}

var fiveYear = []YearGroup{
	{Year: 1, Focus: "Law and Gospels", Books: []string{
		"genesis", "exodus", "leviticus", "numbers", "deuteronomy",
		"matthew", "mark", "luke", "john",
	}},
	{Year: 2, Focus: "History and the Early Church", Books: []string{
		"joshua", "judges", "ruth", "1_samuel", "2_samuel", "1_kings", "2_kings",
		"1_chronicles", "2_chronicles", "ezra", "nehemiah", "esther", "acts",
	}},
	{Year: 3, Focus: "Wisdom and Pauline Epistles", Books: []string{
		"job", "psalms", "proverbs", "ecclesiastes", "song_of_solomon",
		"romans", "1_corinthians", "2_corinthians", "galatians", "ephesians", "philippians", "colossians",
	}},
	{Year: 4, Focus: "Major Prophets and Pastoral Letters", Books: []string{
		"isaiah", "jeremiah", "lamentations", "ezekiel", "daniel",
		"1_thessalonians", "2_thessalonians", "1_timothy", "2_timothy", "titus", "philemon", "hebrews",
	}},
	{Year: 5, Focus: "Minor Prophets and General Epistles", Books: []string{
		"hosea", "joel", "amos", "obadiah", "jonah", "micah", "nahum", "habakkuk",
		"zephaniah", "haggai", "zechariah", "malachi",
		"james", "1_peter", "2_peter", "1_john", "2_john", "3_john", "jude", "revelation",
	}},
}

// FiveYearPlan возвращает глубокую копию структуры пятилетнего плана.
func FiveYearPlan() []YearGroup {
	out := make([]YearGroup, len(fiveYear))
	for i, g := range fiveYear {
		out[i] = YearGroup{Year: g.Year, Focus: g.Focus, Books: append([]string(nil), g.Books...)}
	}
	return out
}
