package query

import (
	"bytes"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SortDocs orders docs in place the way MongoDB would for keys. The sort is
// stable, so documents equal on every key keep their relative order.
func SortDocs(docs []bson.M, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := Compare(docs[i][k.Field], docs[j][k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// Compare orders two decoded BSON values following the MongoDB comparison
// order for the types this service stores: null < numbers < strings <
// ObjectIDs < booleans < dates. Absent fields compare as null.
func Compare(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}

	switch av := a.(type) {
	case nil:
		return 0
	case string:
		return strings.Compare(av, b.(string))
	case primitive.ObjectID:
		bv := b.(primitive.ObjectID)
		return bytes.Compare(av[:], bv[:])
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case primitive.DateTime:
		return cmpInt64(int64(av), int64(b.(primitive.DateTime)))
	case time.Time:
		return av.Compare(b.(time.Time))
	}

	if fa, ok := number(a); ok {
		fb, _ := number(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	}
	return 0
}

const (
	rankNull = iota
	rankNumber
	rankString
	rankObject
	rankObjectID
	rankBool
	rankDate
	rankOther
)

func typeRank(v any) int {
	switch v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return rankNull
	case int, int32, int64, float64, float32, primitive.Decimal128:
		return rankNumber
	case string:
		return rankString
	case bson.M, bson.D:
		return rankObject
	case primitive.ObjectID:
		return rankObjectID
	case bool:
		return rankBool
	case primitive.DateTime, time.Time:
		return rankDate
	default:
		return rankOther
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
