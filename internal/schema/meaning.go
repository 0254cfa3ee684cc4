package schema

import "strings"

// Column-name abbreviations common in warehouse schemas, grouped loosely by
// what they describe.
var abbreviations = map[string]string{
	// identity and people
	"id": "id", "uid": "id", "pid": "id", "usr": "user", "emp": "employee",
	"cust": "customer", "nm": "name", "fnm": "first name", "lnm": "last name",
	"dept": "department", "grp": "group", "org": "organization",

	// contact and location
	"addr": "address", "tel": "phone", "ph": "phone", "mob": "mobile",
	"zip": "zipcode", "pref": "prefecture", "ctry": "country", "cty": "city",
	"loc": "location", "lat": "latitude", "lng": "longitude", "lon": "longitude",

	// quantities and money
	"amt": "amount", "cnt": "count", "qty": "quantity", "bal": "balance",
	"prc": "price", "tax": "tax", "avg": "average", "pct": "percent",
	"ccy": "currency", "cur": "currency",

	// time
	"dt": "date", "ts": "timestamp", "tm": "time", "yr": "year", "mo": "month",

	// lifecycle and flags
	"cre": "created", "reg": "registered", "upd": "updated", "mod": "modified",
	"del": "deleted", "stat": "status", "sts": "status", "flg": "flag",
	"yn": "yes/no", "is": "is",

	// descriptors
	"cd": "code", "no": "number", "num": "number", "desc": "description",
	"typ": "type", "cat": "category", "val": "value", "seq": "sequence",
	"idx": "index", "ord": "order", "msg": "message", "txt": "text",
	"img": "image", "doc": "document", "ver": "version", "src": "source",
}

// ExpandName turns a column name into a readable hint by splitting on
// underscores and expanding known abbreviations: USER_NM -> "user name".
// Unknown parts are kept lower-cased.
func ExpandName(column string) string {
	parts := strings.FieldsFunc(strings.ToLower(column), func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for i, p := range parts {
		if full, ok := abbreviations[p]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}
