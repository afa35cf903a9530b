package router

import "strings"

// Method is one of the supported request methods in canonical upper case.
type Method string

// Supported methods.
const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	DELETE Method = "DELETE"
)

// Methods lists the supported methods in bucket order.
var Methods = [...]Method{GET, POST, PUT, DELETE}

// ParseMethod folds token case and reports whether it names a supported method.
func ParseMethod(token string) (Method, bool) {
	for _, m := range Methods {
		if strings.EqualFold(token, string(m)) {
			return m, true
		}
	}
	return "", false
}

func (m Method) index() int {
	switch m {
	case GET:
		return 0
	case POST:
		return 1
	case PUT:
		return 2
	case DELETE:
		return 3
	}
	return -1
}
