package seeder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type semanticFunc func(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error)

var semanticGenerators = [categoryCount]semanticFunc{
	CategoryAuditUser:   genAuditUser,
	CategoryFullName:    genFullName,
	CategoryUsername:    genUsername,
	CategoryFirstName:   genFirstName,
	CategoryLastName:    genLastName,
	CategoryEmail:       genEmail,
	CategoryPhone:       genPhone,
	CategoryPassword:    genPassword,
	CategoryDocumentID:  genDocumentID,
	CategoryIPAddress:   genIPAddress,
	CategoryBirthDate:   genBirthDate,
	CategoryAuditDate:   genAuditDate,
	CategoryAge:         genAge,
	CategoryGender:      genGender,
	CategoryPostalCode:  genPostalCode,
	CategoryAddress:     genAddress,
	CategoryCity:        listGenerator(CategoryCity, cities),
	CategoryRegion:      listGenerator(CategoryRegion, regions),
	CategoryCountry:     genCountry,
	CategoryLatitude:    coordinateGenerator(CategoryLatitude, 90),
	CategoryLongitude:   coordinateGenerator(CategoryLongitude, 180),
	CategoryCompany:     genCompany,
	CategoryJobTitle:    listGenerator(CategoryJobTitle, jobTitles),
	CategoryDepartment:  listGenerator(CategoryDepartment, departments),
	CategoryStatus:      genStatus,
	CategoryActive:      genActive,
	CategoryPercentage:  genPercentage,
	CategoryAmount:      genAmount,
	CategoryQuantity:    genQuantity,
	CategoryCurrency:    listGenerator(CategoryCurrency, currencies),
	CategoryURL:         genURL,
	CategoryCode:        genCode,
	CategoryTitle:       genTitle,
	CategoryDescription: genDescription,
	CategoryName:        genName,
}

// Semantic generates a value for an inferred category. An error means the
// column cannot hold such a value and the type path should be used.
func (g *DataGenerator) Semantic(cat Category, col types.ColumnDescriptor) (any, error) {
	if cat <= CategoryNone || cat >= categoryCount || semanticGenerators[cat] == nil {
		return nil, fmt.Errorf("no generator for category %d", cat)
	}
	return semanticGenerators[cat](g, col, familyOf(col))
}

func incompatible(cat Category, col types.ColumnDescriptor, fam TypeFamily) error {
	return fmt.Errorf("%w: %s value does not fit %s column %s", errIncompatibleType, cat, fam, col.Name)
}

// textValue runs produce for text columns at least minLen long and cuts the
// result to the declared length.
func (g *DataGenerator) textValue(cat Category, col types.ColumnDescriptor, fam TypeFamily, minLen int, produce func(maxLen int) (string, bool)) (any, error) {
	if !isTextFamily(fam) {
		return nil, incompatible(cat, col, fam)
	}
	maxLen := col.Length()
	if maxLen > 0 && maxLen < minLen {
		return nil, incompatible(cat, col, fam)
	}
	s, ok := produce(maxLen)
	if !ok {
		return nil, incompatible(cat, col, fam)
	}
	return fit(s, maxLen), nil
}

func listGenerator(cat Category, list []string) semanticFunc {
	return func(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
		return g.textValue(cat, col, fam, 1, func(maxLen int) (string, bool) {
			return pickFitting(g, list, maxLen)
		})
	}
}

func genAuditUser(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryAuditUser, col, fam, 3, func(maxLen int) (string, bool) {
		return pickFitting(g, auditUsers, maxLen)
	})
}

func genFullName(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryFullName, col, fam, 3, func(int) (string, bool) {
		return pick(g, firstNames) + " " + pick(g, lastNames), true
	})
}

func genUsername(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryUsername, col, fam, 3, func(int) (string, bool) {
		first := asciiLower(pick(g, firstNames))
		last := asciiLower(pick(g, lastNames))
		return first[:1] + last + strconv.Itoa(g.rand.Intn(100)), true
	})
}

func genFirstName(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryFirstName, col, fam, 2, func(maxLen int) (string, bool) {
		return pickFitting(g, firstNames, maxLen)
	})
}

func genLastName(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryLastName, col, fam, 2, func(maxLen int) (string, bool) {
		return pickFitting(g, lastNames, maxLen)
	})
}

func genEmail(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryEmail, col, fam, 6, func(maxLen int) (string, bool) {
		local := asciiLower(pick(g, firstNames)) + "." + asciiLower(pick(g, lastNames)) + strconv.Itoa(g.rand.Intn(1000))
		domain := pick(g, emailDomains)
		if maxLen > 0 {
			room := maxLen - 1 - len(domain)
			if room < 1 {
				domain = "e.io"
				room = maxLen - 1 - len(domain)
			}
			if len(local) > room {
				local = strings.TrimRight(local[:room], ".")
			}
			if local == "" {
				local = "u"
			}
		}
		return local + "@" + domain, true
	})
}

func genPhone(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	switch {
	case fam == FamilyInteger || fam == FamilyBigInt:
		return g.int64Between(900000000, 999999999), nil
	case isTextFamily(fam):
		return g.textValue(CategoryPhone, col, fam, 6, func(maxLen int) (string, bool) {
			if maxLen == 0 || maxLen >= 11 {
				return "9" + g.digits(2) + " " + g.digits(3) + " " + g.digits(3), true
			}
			return "9" + g.digits(maxLen-1), true
		})
	default:
		return nil, incompatible(CategoryPhone, col, fam)
	}
}

const passwordSymbols = "!@#$%&*"

func genPassword(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryPassword, col, fam, 8, func(int) (string, bool) {
		n := 12 + g.rand.Intn(5)
		b := []byte(g.letters(n - 2))
		b = append(b, passwordSymbols[g.rand.Intn(len(passwordSymbols))], byte('0'+g.rand.Intn(10)))
		return string(b), true
	})
}

func genDocumentID(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	switch {
	case fam == FamilyInteger || fam == FamilyBigInt:
		return g.int64Between(10000000, 99999999), nil
	case isTextFamily(fam):
		return g.textValue(CategoryDocumentID, col, fam, 8, func(int) (string, bool) {
			return strconv.Itoa(1+g.rand.Intn(9)) + g.digits(7), true
		})
	default:
		return nil, incompatible(CategoryDocumentID, col, fam)
	}
}

func genIPAddress(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	ip := fmt.Sprintf("192.168.%d.%d", g.rand.Intn(256), 1+g.rand.Intn(254))
	if fam == FamilyNetwork && col.TypeName() == "inet" {
		return ip, nil
	}
	return g.textValue(CategoryIPAddress, col, fam, 15, func(int) (string, bool) {
		return ip, true
	})
}

func genBirthDate(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	if !isTemporalFamily(fam) {
		return nil, incompatible(CategoryBirthDate, col, fam)
	}
	t := g.ref.AddDate(-(18 + g.rand.Intn(62)), 0, -g.rand.Intn(365))
	if fam == FamilyDate {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return t.Truncate(time.Second), nil
}

func genAuditDate(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	switch fam {
	case FamilyDate:
		return g.dateIn(g.cfg.DateRanges.Date), nil
	case FamilyTimestamp:
		return g.timestampIn(g.cfg.DateRanges.Timestamp), nil
	default:
		return nil, incompatible(CategoryAuditDate, col, fam)
	}
}

func genAge(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	age := g.int64Between(18, 80)
	switch {
	case isIntegerFamily(fam):
		return age, nil
	case fam == FamilyNumeric:
		upper, _ := g.numericBounds(col)
		if upper.LessThan(decimal.NewFromInt(18)) {
			return nil, incompatible(CategoryAge, col, fam)
		}
		return decimal.Min(decimal.NewFromInt(age), upper), nil
	default:
		return nil, incompatible(CategoryAge, col, fam)
	}
}

func genGender(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryGender, col, fam, 1, func(maxLen int) (string, bool) {
		if s, ok := pickFitting(g, genders, maxLen); ok {
			return s, true
		}
		return pick(g, []string{"M", "F"}), true
	})
}

func genPostalCode(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	if isIntegerFamily(fam) && fam != FamilySmallInt {
		return g.int64Between(10000, 99999), nil
	}
	return g.textValue(CategoryPostalCode, col, fam, 5, func(int) (string, bool) {
		return g.digits(5), true
	})
}

func genAddress(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryAddress, col, fam, 10, func(int) (string, bool) {
		return fmt.Sprintf("%s %s %d", pick(g, streetKinds), pick(g, streetNames), 1+g.rand.Intn(2999)), true
	})
}

func genCountry(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryCountry, col, fam, 2, func(maxLen int) (string, bool) {
		switch maxLen {
		case 2:
			return pick(g, countryCodes2), true
		case 3:
			return pick(g, countryCodes3), true
		}
		return pickFitting(g, countries, maxLen)
	})
}

// coordinateGenerator yields degrees in [-limit, limit].
func coordinateGenerator(cat Category, limit float64) semanticFunc {
	intDigits := len(strconv.Itoa(int(limit)))
	return func(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
		switch fam {
		case FamilyFloat:
			return round(g.float64Between(-limit, limit), 6), nil
		case FamilyNumeric:
			precision, scale := declaredNumeric(col)
			if precision-scale < intDigits {
				return nil, incompatible(cat, col, fam)
			}
			bound := decimal.NewFromFloat(limit)
			return g.decimalBetween(bound.Neg(), bound, int32(min(scale, 6))), nil
		default:
			return nil, incompatible(cat, col, fam)
		}
	}
}

func genCompany(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryCompany, col, fam, 3, func(maxLen int) (string, bool) {
		word := pick(g, companyWords)
		name := word + " " + pick(g, companySuffixes)
		if maxLen > 0 && len([]rune(name)) > maxLen {
			return word, true
		}
		return name, true
	})
}

func genStatus(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	switch {
	case fam == FamilyBoolean:
		return g.rand.Float64() < 0.8, nil
	case isIntegerFamily(fam):
		return g.int64Between(0, 3), nil
	}
	return g.textValue(CategoryStatus, col, fam, 1, func(maxLen int) (string, bool) {
		if maxLen == 1 {
			return pick(g, []string{"A", "I"}), true
		}
		return pickFitting(g, statuses, maxLen)
	})
}

// genActive leans 80% true and matches the column's representation of a flag.
func genActive(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return boolLike(CategoryActive, col, fam, g.rand.Float64() < 0.8)
}

func boolLike(cat Category, col types.ColumnDescriptor, fam TypeFamily, v bool) (any, error) {
	switch {
	case fam == FamilyBoolean:
		return v, nil
	case isIntegerFamily(fam) || fam == FamilyNumeric:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case isTextFamily(fam):
		if v {
			return "1", nil
		}
		return "0", nil
	default:
		return nil, incompatible(cat, col, fam)
	}
}

func genPercentage(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	switch {
	case fam == FamilyFloat:
		return round(g.float64Between(0, 100), 2), nil
	case isIntegerFamily(fam):
		return g.int64Between(0, 100), nil
	case fam == FamilyNumeric:
		precision, scale := declaredNumeric(col)
		upper, _ := g.numericBounds(col)
		if precision-scale >= 3 {
			upper = decimal.Min(upper, decimal.NewFromInt(100))
		} else {
			upper = decimal.Min(upper, decimal.NewFromInt(1))
		}
		return g.decimalBetween(decimal.Zero, upper, int32(scale)), nil
	default:
		return nil, incompatible(CategoryPercentage, col, fam)
	}
}

// amountBands are the magnitude tiers for money, most frequent first.
var amountBands = []struct {
	weight int
	lo, hi float64
}{
	{6, 1, 1000},
	{3, 1000, 10000},
	{1, 10000, 100000},
}

func (g *DataGenerator) amountBand() (float64, float64) {
	r := g.rand.Intn(10)
	for _, b := range amountBands {
		if r < b.weight {
			return b.lo, b.hi
		}
		r -= b.weight
	}
	last := amountBands[len(amountBands)-1]
	return last.lo, last.hi
}

func genAmount(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	lo, hi := g.amountBand()
	hi = math.Min(hi, g.cfg.Ranges.Numeric.MaxValue)
	if lo >= hi {
		lo = 0
	}

	switch {
	case fam == FamilyNumeric:
		upper, scale := g.numericBounds(col)
		loD, hiD := decimal.NewFromFloat(lo), decimal.Min(decimal.NewFromFloat(hi), upper)
		if loD.GreaterThanOrEqual(hiD) {
			loD = decimal.Zero
		}
		return g.decimalBetween(loD, hiD, scale), nil
	case fam == FamilyFloat:
		return round(g.float64Between(lo, hi), 2), nil
	case fam == FamilySmallInt:
		return g.int64Between(int64(lo), min(int64(hi), math.MaxInt16)), nil
	case fam == FamilyInteger || fam == FamilyBigInt:
		return g.int64Between(int64(lo), int64(hi)), nil
	default:
		return nil, incompatible(CategoryAmount, col, fam)
	}
}

func genQuantity(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	var q int64
	if g.rand.Intn(10) < 8 {
		q = g.int64Between(1, 20)
	} else {
		q = g.int64Between(21, 500)
	}

	switch {
	case isIntegerFamily(fam):
		return q, nil
	case fam == FamilyNumeric:
		upper, _ := g.numericBounds(col)
		return decimal.Min(decimal.NewFromInt(q), upper), nil
	case fam == FamilyFloat:
		return float64(q), nil
	default:
		return nil, incompatible(CategoryQuantity, col, fam)
	}
}

func genURL(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryURL, col, fam, 16, func(maxLen int) (string, bool) {
		base := "https://www." + asciiLower(pick(g, companyWords)) + ".com"
		if maxLen > 0 && len(base) > maxLen {
			base = "https://" + asciiLower(pick(g, companyWords)) + ".io"
		}
		url := base + "/" + pick(g, loremWords)
		if maxLen > 0 && len(url) > maxLen {
			return base, len(base) <= maxLen
		}
		return url, true
	})
}

func genCode(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	if fam == FamilyInteger || fam == FamilyBigInt {
		return g.int64Between(1000, 99999), nil
	}
	return g.textValue(CategoryCode, col, fam, 1, func(maxLen int) (string, bool) {
		if maxLen > 0 && maxLen < 9 {
			return strings.ToUpper(g.letters(maxLen)), true
		}
		return strings.ToUpper(g.letters(3)) + "-" + g.digits(5), true
	})
}

func genTitle(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryTitle, col, fam, 5, func(maxLen int) (string, bool) {
		n := 2 + g.rand.Intn(5)
		words := make([]string, n)
		for i := range words {
			words[i] = capitalize(pick(g, g.words))
		}
		s := strings.Join(words, " ")
		if maxLen > 0 && len([]rune(s)) > maxLen {
			s = capitalize(g.Text(maxLen))
		}
		return s, true
	})
}

func genDescription(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryDescription, col, fam, 10, func(maxLen int) (string, bool) {
		limit := g.cfg.Text.MaxLengthText
		if maxLen > 0 && maxLen < limit {
			limit = maxLen
		}
		n := min(limit, 20+g.rand.Intn(181))
		return capitalize(g.Text(n)), true
	})
}

func genName(g *DataGenerator, col types.ColumnDescriptor, fam TypeFamily) (any, error) {
	return g.textValue(CategoryName, col, fam, 3, func(maxLen int) (string, bool) {
		noun := pick(g, productNouns)
		name := noun + " " + pick(g, productAdjectives)
		if maxLen > 0 && len([]rune(name)) > maxLen {
			return noun, true
		}
		return name, true
	})
}

// declaredNumeric returns precision and scale with the same defaults as
// numericBounds.
func declaredNumeric(col types.ColumnDescriptor) (int, int) {
	precision, scale := 10, 2
	if col.NumericPrecision != nil && *col.NumericPrecision > 0 {
		precision = *col.NumericPrecision
	}
	if col.NumericScale != nil {
		scale = *col.NumericScale
	}
	return precision, scale
}

// asciiLower folds accents and drops anything that is not a letter or digit.
func asciiLower(s string) string {
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s)
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
