package games

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

type span struct{ min, max int }

var speedTables = Game{
	ID:          "speed-tables",
	Name:        "Speed Tables",
	Description: "Master tables with rapid-fire questions.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		a := tiered(d, span{2, 12}, span{5, 20}, span{12, 30})
		b := tiered(d, span{2, 10}, span{3, 12}, span{6, 15})
		x, y := randomInt(r, a.min, a.max), randomInt(r, b.min, b.max)
		correct := float64(x * y)
		return numeric(r, fmt.Sprintf("%d × %d = ?", x, y), correct, wrongOptions(r, correct, 3))
	},
}

var squareRoots = Game{
	ID:          "square-roots",
	Name:        "Square Roots",
	Description: "Instantly recognize perfect squares up to 25². Essential.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{1, 15}, span{5, 25}, span{15, 35})
		root := randomInt(r, s.min, s.max)
		return numeric(r, fmt.Sprintf("√%d = ?", root*root), float64(root), wrongOptions(r, float64(root), 3))
	},
}

var squaresFlash = Game{
	ID:          "squares-flash",
	Name:        "Squares Flash",
	Description: "What is x²? (11-40)",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{11, 20}, span{15, 35}, span{25, 50})
		n := randomInt(r, s.min, s.max)
		correct := n * n
		wrongs := distinct(3, func() (float64, bool) {
			off := randomInt(r, 1, 4)
			if r.IntN(2) == 0 {
				off = -off
			}
			w := (n + off) * (n + off)
			if w == correct || w <= 0 {
				w = correct + 10
			}
			return float64(w), true
		})
		return numeric(r, fmt.Sprintf("%d² = ?", n), float64(correct), wrongs)
	},
}

var cubeRoots = Game{
	ID:          "cube-roots",
	Name:        "Cube Roots",
	Description: "Memorize cubes up to 12³. Key for series.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{1, 8}, span{3, 12}, span{8, 20})
		root := randomInt(r, s.min, s.max)
		return numeric(r, fmt.Sprintf("∛%d = ?", root*root*root), float64(root), wrongOptions(r, float64(root), 3))
	},
}

var percentageFlash = Game{
	ID:          "percentage-flash",
	Name:        "Percentage Flash",
	Description: "Build reflexes for fraction-to-percentage conversion.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		percent := pick(r, tiered(d,
			[]float64{10, 20, 25, 50},
			[]float64{5, 10, 15, 20, 25, 50, 75},
			[]float64{12.5, 16.66, 33.33, 37.5, 62.5, 87.5},
		))
		base := pick(r, tiered(d,
			[]float64{100, 200, 500},
			[]float64{80, 120, 150, 200, 500},
			[]float64{64, 96, 144, 250, 360},
		))
		correct := math.Round(percent/100*base*100) / 100
		prompt := fmt.Sprintf("%s%% of %s = ?", formatNumber(percent), formatNumber(base))
		return numeric(r, prompt, correct, wrongOptions(r, correct, 3))
	},
}

var simplificationBlitz = Game{
	ID:          "simplification-blitz",
	Name:        "Simplification Blitz",
	Description: "Solve BODMAS problems under time pressure.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		scale := tiered(d, 1.0, 1.5, 2.0)
		base := tiered(d, 10, 20, 50)
		scaled := func(v float64) int { return int(math.Round(v * scale)) }

		var prompt string
		var correct int
		switch r.IntN(4) {
		case 0:
			a, b, c := randomInt(r, base, base*4), randomInt(r, base, base*3), randomInt(r, base, base*2)
			correct = a + b - c
			prompt = fmt.Sprintf("%d + %d - %d = ?", a, b, c)
		case 1:
			a, b, c := randomInt(r, scaled(2), scaled(12)), randomInt(r, 2, 12), randomInt(r, 10, scaled(50))
			correct = a*b + c
			prompt = fmt.Sprintf("%d × %d + %d = ?", a, b, c)
		case 2:
			b, q := randomInt(r, 2, scaled(10)), randomInt(r, 5, scaled(20))
			correct = q
			prompt = fmt.Sprintf("%d ÷ %d = ?", b*q, b)
		default:
			a, b, c := randomInt(r, scaled(2), scaled(15)), randomInt(r, 2, 10), randomInt(r, 2, scaled(5))
			correct = (a + b) * c
			prompt = fmt.Sprintf("(%d + %d) × %d = ?", a, b, c)
		}
		return numeric(r, prompt, float64(correct), wrongOptions(r, float64(correct), 3))
	},
}

// nearby draws three distinct positive integers within ±spread of correct.
func nearby(r *rand.Rand, correct, spread int) []float64 {
	return distinct(3, func() (float64, bool) {
		w := correct + randomInt(r, -spread, spread)
		return float64(w), w != correct && w > 0
	})
}

var additionSprint = Game{
	ID:          "addition-sprint",
	Name:        "Addition Sprint",
	Description: "Rapidly add 2-3 digit numbers.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{10, 99}, span{50, 500}, span{100, 999})
		a, b := randomInt(r, s.min, s.max), randomInt(r, s.min, s.max)
		return numeric(r, fmt.Sprintf("%d + %d = ?", a, b), float64(a+b), nearby(r, a+b, 20))
	},
}

var subtractionSprint = Game{
	ID:          "subtraction-sprint",
	Name:        "Subtraction Sprint",
	Description: "Rapidly subtract 2-3 digit numbers.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{20, 99}, span{100, 500}, span{200, 999})
		a := randomInt(r, s.min, s.max)
		b := randomInt(r, s.min/2, a-10)
		return numeric(r, fmt.Sprintf("%d - %d = ?", a, b), float64(a-b), nearby(r, a-b, 20))
	},
}

var divisibilityDash = Game{
	ID:          "divisibility-dash",
	Name:        "Divisibility Dash",
	Description: "Rapidly check divisibility rules (3, 4, 8, 9, 11).",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		divisor := pick(r, tiered(d, []int{2, 3, 5}, []int{3, 4, 8, 9}, []int{7, 8, 9, 11}))
		s := tiered(d, span{10, 999}, span{100, 9999}, span{1000, 99999})
		divisible := r.Float64() > 0.5
		n := randomInt(r, s.min, s.max)
		rem := n % divisor
		if divisible {
			n -= rem
		} else if rem == 0 {
			n++
		}
		answer, other := "No", "Yes"
		if divisible {
			answer, other = other, answer
		}
		return choice(r, fmt.Sprintf("Is %d divisible by %d?", n, divisor), answer, []string{other})
	},
}

var unitDigitHunter = Game{
	ID:          "unit-digit-hunter",
	Name:        "Unit Digit Hunter",
	Description: "Find the last digit of the expression.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		terms := tiered(d, 2, 3, 4)
		s := tiered(d, span{10, 50}, span{10, 99}, span{50, 999})

		first := randomInt(r, s.min, s.max)
		var b strings.Builder
		fmt.Fprintf(&b, "%d", first)
		// × binds tighter than +: sum holds the closed product terms and
		// product the open one, both mod 10.
		sum, product := 0, first%10
		for i := 1; i < terms; i++ {
			t := randomInt(r, s.min, s.max)
			if r.Float64() > 0.3 {
				fmt.Fprintf(&b, " × %d", t)
				product = product * (t % 10) % 10
			} else {
				fmt.Fprintf(&b, " + %d", t)
				sum = (sum + product) % 10
				product = t % 10
			}
		}
		unit := (sum + product) % 10
		wrongs := distinct(3, func() (float64, bool) {
			w := randomInt(r, 0, 9)
			return float64(w), w != unit
		})
		return numeric(r, b.String()+" = ...?", float64(unit), wrongs)
	},
}
