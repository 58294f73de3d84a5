package games

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

var seriesSprint = Game{
	ID:          "series-sprint",
	Name:        "Series Sprint",
	Description: "Identify arithmetic & geometric patterns instantly.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		scale := tiered(d, 1, 2, 3)
		var series []int
		var next int
		switch r.IntN(4) {
		case 0:
			start, diff := randomInt(r, 1, 10*scale), randomInt(r, 2, 4*scale)
			series = []int{start, start + diff, start + 2*diff, start + 3*diff}
			next = start + 4*diff
		case 1:
			start := randomInt(r, 2, 3*scale)
			mult := 2
			if d == Hard {
				mult = 3
			}
			series = []int{start, start * mult, start * mult * mult, start * mult * mult * mult}
			next = series[3] * mult
		case 2:
			s := randomInt(r, 1, 3*scale)
			series = []int{s * s, (s + 1) * (s + 1), (s + 2) * (s + 2), (s + 3) * (s + 3)}
			next = (s + 4) * (s + 4)
		default:
			a, b := randomInt(r, 1, 3*scale), randomInt(r, 1, 3*scale)
			series = []int{a, b, a + b, a + 2*b}
			next = 2*a + 3*b
		}
		parts := make([]string, len(series))
		for i, v := range series {
			parts[i] = strconv.Itoa(v)
		}
		return numeric(r, strings.Join(parts, ", ")+", ?", float64(next), wrongOptions(r, float64(next), 3))
	},
}

// caesar shifts each upper-case letter of w forward by s places.
func caesar(w string, s int) string {
	out := []byte(w)
	for i, c := range out {
		out[i] = byte((int(c-'A')+s)%26 + 'A')
	}
	return string(out)
}

var codingRush = Game{
	ID:          "coding-rush",
	Name:        "Coding Rush",
	Description: "Decode letter shifting logic rapidly.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		word := pick(r, tiered(d,
			[]string{"CAT", "DOG", "BAT"},
			[]string{"APPLE", "MANGO", "TIGER", "HOUSE"},
			[]string{"ELEPHANT", "COMPUTER", "SOLUTION"},
		))
		shift := tiered(d, randomInt(r, 1, 2), randomInt(r, 1, 3), randomInt(r, 2, 5))
		correct := caesar(word, shift)
		var wrongs []string
		for _, s := range []int{shift + 1, shift - 1, shift + 2} {
			if w := caesar(word, (s+26)%26); w != correct && !slices.Contains(wrongs, w) {
				wrongs = append(wrongs, w)
			}
		}
		prompt := fmt.Sprintf("If A→%c, then %s = ?", 'A'+rune(shift), word)
		return choice(r, prompt, correct, wrongs)
	},
}

var alphabetRecall = Game{
	ID:          "alphabet-recall",
	Name:        "Alphabet Recall",
	Description: "Master letter positions for Coding-Decoding.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		reverse := pick(r, tiered(d, []bool{false}, []bool{false, true}, []bool{true}))
		pos := randomInt(r, 1, 26)
		letter := rune('A' + pos - 1)
		correct := pos
		prompt := fmt.Sprintf("Rank of '%c'?", letter)
		if reverse {
			correct = 27 - pos
			prompt = fmt.Sprintf("Reverse Rank of '%c'?", letter)
		}
		wrongs := distinct(3, func() (float64, bool) {
			w := randomInt(r, 1, 26)
			return float64(w), w != correct
		})
		return numeric(r, prompt, float64(correct), wrongs)
	},
}

type analogy struct {
	a, b, c, answer string
	wrongs          []string
}

var analogies = []analogy{
	{"Bird", "Nest", "Bee", "Hive", []string{"Honey", "Flower", "Wing"}},
	{"Book", "Read", "Food", "Eat", []string{"Cook", "Drink", "Sleep"}},
	{"Eye", "See", "Ear", "Hear", []string{"Nose", "Touch", "Speak"}},
	{"Doctor", "Hospital", "Teacher", "School", []string{"Student", "Book", "College"}},
	{"Fish", "Water", "Bird", "Sky", []string{"Nest", "Tree", "Feather"}},
	{"Pen", "Write", "Knife", "Cut", []string{"Sharp", "Metal", "Slice"}},
	{"Author", "Book", "Composer", "Symphony", []string{"Music", "Piano", "Conductor"}},
	{"Electricity", "Wire", "Water", "Pipe", []string{"Tank", "Flow", "Liquid"}},
}

var analogyExpress = Game{
	ID:          "analogy-express",
	Name:        "Analogy Express",
	Description: "Find relationships between word pairs.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		p := pick(r, poolFor(d, analogies, 3, 6))
		return choice(r, fmt.Sprintf("%s : %s :: %s : ?", p.a, p.b, p.c), p.answer, p.wrongs)
	},
}

type oddGroup struct {
	items []string
	odd   string
}

var oddGroups = []oddGroup{
	{[]string{"Apple", "Mango", "Banana", "Carrot"}, "Carrot"},
	{[]string{"2", "4", "6", "9"}, "9"},
	{[]string{"Dog", "Cat", "Crow", "Lion"}, "Crow"},
	{[]string{"Red", "Blue", "Circle", "Green"}, "Circle"},
	{[]string{"January", "March", "Monday", "July"}, "Monday"},
	{[]string{"Guitar", "Piano", "Painting", "Drums"}, "Painting"},
	{[]string{"36", "49", "64", "72"}, "72"},
	{[]string{"Run", "Walk", "Chair", "Jump"}, "Chair"},
	{[]string{"121", "144", "169", "200"}, "200"},
}

var oddOneOut = Game{
	ID:          "odd-one-out",
	Name:        "Odd One Out",
	Description: "Spot the anomaly in a group instantly.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		g := pick(r, poolFor(d, oddGroups, 4, 8))
		var rest []string
		for _, it := range g.items {
			if it != g.odd {
				rest = append(rest, it)
			}
		}
		return choice(r, "Find the odd one out", g.odd, rest)
	},
}

var dictionaryPools = [][]string{
	{"Apple", "Apply", "Apart", "April"},
	{"Brake", "Break", "Bread", "Brick"},
	{"Cast", "Cart", "Case", "Cave"},
	{"Dear", "Deer", "Deep", "Deal"},
	{"Eager", "Eagle", "Early", "Earth"},
	{"Fair", "Face", "Fall", "Fail"},
	{"Game", "Gate", "Gaze", "Gear"},
	{"Hair", "Half", "Hall", "Hand"},
	{"Imagination", "Immaculate", "Immediate", "Immigration"},
	{"Jurisprudence", "Jurisdiction", "Justification", "Juvenile"},
}

var dictionaryOrder = Game{
	ID:          "dictionary-order",
	Name:        "Dictionary Order",
	Description: "Which word comes FIRST in the dictionary?",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		words := shuffle(r, pick(r, poolFor(d, dictionaryPools, 4, 8)))
		first := slices.Min(words)
		return Question{
			Prompt:       "First in Dictionary: " + strings.Join(words, ", "),
			Options:      words,
			CorrectIndex: slices.Index(words, first),
		}
	},
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var calendarCrunch = Game{
	ID:          "calendar-crunch",
	Name:        "Calendar Crunch",
	Description: "Calculate the day of the week.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		start := r.IntN(7)
		s := tiered(d, span{7, 30}, span{20, 100}, span{50, 365})
		offset := randomInt(r, s.min, s.max)
		correct := weekdays[(start+offset)%7]
		wrongs := distinct(3, func() (string, bool) {
			w := pick(r, weekdays)
			return w, w != correct
		})
		prompt := fmt.Sprintf("If today is %s, what day is it after %d days?", weekdays[start], offset)
		return choice(r, prompt, correct, wrongs)
	},
}

var compass = []string{"North", "East", "South", "West"}

var directionSense = Game{
	ID:          "direction-sense",
	Name:        "Direction Sense",
	Description: "Track turns & find final direction.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		start := r.IntN(4)
		cur := start
		turns := tiered(d, 2, randomInt(r, 3, 4), randomInt(r, 4, 6))
		steps := make([]string, 0, turns)
		for i := 0; i < turns; i++ {
			switch r.IntN(3) {
			case 0:
				steps = append(steps, "Left")
				cur = (cur + 3) % 4
			case 1:
				steps = append(steps, "Right")
				cur = (cur + 1) % 4
			default:
				steps = append(steps, "About-Turn")
				cur = (cur + 2) % 4
			}
		}
		correct := compass[cur]
		var wrongs []string
		for _, dir := range compass {
			if dir != correct {
				wrongs = append(wrongs, dir)
			}
		}
		prompt := fmt.Sprintf("Start %s, %s → ?", compass[start], strings.Join(steps, ", "))
		return choice(r, prompt, correct, wrongs)
	},
}

type relation struct{ q, a string }

var relations = []relation{
	{"A's father's son", "Brother/A"},
	{"A's mother's daughter", "Sister/A"},
	{"A's brother's father", "Father"},
	{"A's father's father", "Grandfather"},
	{"A's mother's mother", "Grandmother"},
	{"A's son's sister", "Daughter"},
	{"A's daughter's brother", "Son"},
	{"A's uncle's son", "Cousin"},
	{"A's father's brother's wife", "Aunt"},
	{"A's mother's sister's husband", "Uncle"},
}

var relationAnswers = []string{
	"Brother/A", "Sister/A", "Father", "Mother", "Grandfather", "Grandmother",
	"Son", "Daughter", "Uncle", "Aunt", "Cousin",
}

var bloodRelation = Game{
	ID:          "blood-relation",
	Name:        "Blood Relation",
	Description: "Decode family relationships.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		rel := pick(r, poolFor(d, relations, 4, 8))
		wrongs := make([]string, 0, 3)
		for _, a := range relationAnswers {
			if a != rel.a && len(wrongs) < 3 {
				wrongs = append(wrongs, a)
			}
		}
		return choice(r, rel.q+" is A's?", rel.a, wrongs)
	},
}

var mirrorPatterns = []string{"ABC", "XYZ", "123", "QUIZ", "TEST", "WORD", "2024", "EXAM", "MIRROR", "REVERSE"}

var mirrorImage = Game{
	ID:          "mirror-image",
	Name:        "Mirror Image",
	Description: "Identify the correct mirror image.",
	Category:    Reasoning,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		original := pick(r, poolFor(d, mirrorPatterns, 4, 8))
		runes := []rune(original)
		rev := slices.Clone(runes)
		slices.Reverse(rev)
		mirrored := string(rev)
		wrongs := distinct(3, func() (string, bool) {
			w := string(shuffle(r, runes))
			return w, w != mirrored && w != original
		})
		return choice(r, fmt.Sprintf("Mirror of %q?", original), mirrored, wrongs)
	},
}
