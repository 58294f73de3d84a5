package games

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type fraction struct {
	frac, dec string
}

var fractionTable = []fraction{
	{"1/2", "0.5"},
	{"1/3", "0.33"},
	{"2/3", "0.66"},
	{"1/4", "0.25"},
	{"3/4", "0.75"},
	{"1/5", "0.2"},
	{"1/8", "0.125"},
	{"3/8", "0.375"},
	{"5/8", "0.625"},
	{"7/8", "0.875"},
}

// fractionGame asks for one column of the table given another.
func fractionGame(id, name, desc string, ask, answer func(fraction) string) Game {
	return Game{
		ID:          id,
		Name:        name,
		Description: desc,
		Category:    Quant,
		Generate: func(r *rand.Rand, d Difficulty) Question {
			pool := poolFor(d, fractionTable, 5, 8)
			item := pick(r, pool)
			correct := answer(item)
			wrongs := distinct(3, func() (string, bool) {
				w := answer(pick(r, pool))
				return w, w != correct
			})
			return choice(r, ask(item)+" = ?", correct, wrongs)
		},
	}
}

var fractionDecimal = fractionGame("fraction-decimal", "Fraction to Decimal", "Convert Fraction to Decimal.",
	func(f fraction) string { return f.frac },
	func(f fraction) string { return f.dec },
)

var decimalFraction = fractionGame("decimal-fraction", "Decimal to Fraction", "Convert Decimal to Fraction.",
	func(f fraction) string { return f.dec },
	func(f fraction) string { return f.frac },
)

var ratioSimplification = Game{
	ID:          "ratio-simplification",
	Name:        "Ratio Simplification",
	Description: "Simplify the ratio.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{2, 5}, span{2, 12}, span{5, 20})
		m := randomInt(r, s.min, s.max)
		a, b := randomInt(r, 1, 10)*m, randomInt(r, 1, 10)*m
		g := gcd(a, b)
		ra, rb := a/g, b/g
		correct := fmt.Sprintf("%d:%d", ra, rb)
		jitter := func(v int) int {
			v += randomInt(r, -2, 2)
			if v < 1 {
				return 1
			}
			return v
		}
		wrongs := distinct(3, func() (string, bool) {
			w := fmt.Sprintf("%d:%d", jitter(ra), jitter(rb))
			return w, w != correct
		})
		return choice(r, fmt.Sprintf("%d : %d = ?", a, b), correct, wrongs)
	},
}

var averageQuick = Game{
	ID:          "average-quick",
	Name:        "Average Quick Solve",
	Description: "Find the average.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{10, 30}, span{20, 60}, span{30, 100})
		count := tiered(d, 3, 4, 5)
		avg := randomInt(r, s.min, s.max)

		nums := make([]int, 0, count)
		sum := 0
		for i := 0; i < count-1; i++ {
			n := avg + randomInt(r, -15, 15)
			nums = append(nums, n)
			sum += n
		}
		nums = append(nums, avg*count-sum)
		nums = shuffle(r, nums)

		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = fmt.Sprintf("%d", n)
		}
		wrongs := distinct(3, func() (float64, bool) {
			w := avg + randomInt(r, -5, 5)
			return float64(w), w != avg
		})
		return numeric(r, fmt.Sprintf("Avg of %s?", strings.Join(parts, ", ")), float64(avg), wrongs)
	},
}

var profitLoss = Game{
	ID:          "profit-loss",
	Name:        "Profit/Loss Flash",
	Description: "Calculate Profit/Loss %.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{50, 200}, span{100, 500}, span{200, 1000})
		cp := randomInt(r, s.min/10, s.max/10) * 10
		pct := pick(r, tiered(d,
			[]int{10, 20, 25, 50},
			[]int{5, 10, 15, 20, 25, 50},
			[]int{5, 10, 15, 20, 25, 30, 40, 50},
		))
		profit := r.Float64() > 0.5
		delta := float64(cp*pct) / 100
		sp := float64(cp) - delta
		tag := "L"
		if profit {
			sp = float64(cp) + delta
			tag = "P"
		}
		correct := fmt.Sprintf("%d%% %s", pct, tag)
		wrongs := distinct(3, func() (string, bool) {
			p := pct + randomInt(r, -5, 5)*5
			if p < 0 {
				p = -p
			}
			t := "L"
			if r.Float64() > 0.5 {
				t = "P"
			}
			w := fmt.Sprintf("%d%% %s", p, t)
			return w, w != correct
		})
		return choice(r, fmt.Sprintf("CP=%d, SP=%s", cp, formatNumber(sp)), correct, wrongs)
	},
}

var timeSpeed = Game{
	ID:          "time-speed",
	Name:        "Time & Speed",
	Description: "Convert km/h to m/s.",
	Category:    Quant,
	Generate: func(r *rand.Rand, d Difficulty) Question {
		s := tiered(d, span{1, 5}, span{1, 8}, span{2, 12})
		f := randomInt(r, s.min, s.max)
		ms := f * 5
		wrongs := distinct(3, func() (float64, bool) {
			w := ms + randomInt(r, -4, 4)
			return float64(w), w != ms && w > 0
		})
		return numeric(r, fmt.Sprintf("%d km/h = ? m/s", f*18), float64(ms), wrongs)
	},
}
