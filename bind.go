package basex

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// queryArgument renders a Go value as an XQuery external variable: its
// UTF-8 text form plus the xs:* type the server should cast it to. The
// type may be overridden by the caller; values the server cannot type are
// bound as plain strings.
func queryArgument(value any) (text, typ string, err error) {
	switch v := value.(type) {
	case nil:
		return "", "", nil
	case string:
		return v, "xs:string", nil
	case bool:
		return strconv.FormatBool(v), "xs:boolean", nil
	case int8:
		return strconv.FormatInt(int64(v), 10), "xs:byte", nil
	case int16:
		return strconv.FormatInt(int64(v), 10), "xs:short", nil
	case int32:
		return strconv.FormatInt(int64(v), 10), "xs:int", nil
	case int:
		return strconv.FormatInt(int64(v), 10), "xs:long", nil
	case int64:
		return strconv.FormatInt(v, 10), "xs:long", nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), "xs:unsignedByte", nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), "xs:unsignedShort", nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), "xs:unsignedInt", nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), "xs:unsignedLong", nil
	case uint64:
		return strconv.FormatUint(v, 10), "xs:unsignedLong", nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), "xs:float", nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), "xs:double", nil
	case time.Time:
		return v.Format(time.RFC3339Nano), "xs:dateTime", nil
	case time.Duration:
		return v.String(), "xs:string", nil
	case decimal.Decimal:
		return v.String(), "xs:decimal", nil
	case uuid.UUID:
		return v.String(), "xs:string", nil
	case fmt.Stringer:
		return v.String(), "xs:string", nil
	}
	return "", "", fmt.Errorf("basex [bind]: unsupported argument type %T", value)
}
