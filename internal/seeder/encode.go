package seeder

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// copyNull is the NULL marker of the COPY stream.
const copyNull = `\N`

// encodeValue renders v in PostgreSQL text input format. ok is false for a
// SQL NULL.
func encodeValue(v any, fam TypeFamily) (s string, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return x, true, nil
	case bool:
		if x {
			return "t", true, nil
		}
		return "f", true, nil
	case int:
		return strconv.Itoa(x), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true, nil
	case decimal.Decimal:
		return x.String(), true, nil
	case time.Time:
		if fam == FamilyDate {
			return x.Format("2006-01-02"), true, nil
		}
		return x.Format("2006-01-02T15:04:05.999999Z07:00"), true, nil
	case uuid.UUID:
		return x.String(), true, nil
	case []byte:
		return `\x` + hex.EncodeToString(x), true, nil
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return "", false, err
		}
		return string(b), true, nil
	case arrayValue:
		s, err := encodeArray(x)
		return s, err == nil, err
	case fmt.Stringer:
		return x.String(), true, nil
	default:
		return "", false, fmt.Errorf("unsupported value type %T", v)
	}
}

var arrayEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// encodeArray renders a one-dimensional array literal with every element
// quoted.
func encodeArray(a arrayValue) (string, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, item := range a.Items {
		if i > 0 {
			sb.WriteByte(',')
		}
		s, ok, err := encodeValue(item, a.Elem)
		if err != nil {
			return "", err
		}
		if !ok {
			sb.WriteString("NULL")
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(arrayEscaper.Replace(s))
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// encodeRow turns a generated row into text arguments (nil for NULL).
func encodeRow(columns []string, families []TypeFamily, row []any) ([]any, error) {
	out := make([]any, len(row))
	for i, v := range row {
		s, ok, err := encodeValue(v, families[i])
		if err != nil {
			return nil, &encodeError{column: columns[i], value: v}
		}
		if ok {
			out[i] = s
		}
	}
	return out, nil
}

// encodeCSV serializes rows for COPY ... WITH (FORMAT csv, NULL '\N').
// Every non-null field is quoted, so an unquoted \N is always NULL and a
// quoted empty field is always the empty string.
func encodeCSV(columns []string, families []TypeFamily, rows [][]any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	for _, row := range rows {
		args, err := encodeRow(columns, families, row)
		if err != nil {
			return nil, err
		}
		for i, a := range args {
			if i > 0 {
				buf.WriteByte(',')
			}
			if a == nil {
				buf.WriteString(copyNull)
				continue
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(a.(string), `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	return &buf, nil
}
