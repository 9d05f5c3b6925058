package typemapping

import (
	"fmt"
	"strconv"
	"strings"
)

// StoreType is a parsed provider store type such as "nvarchar(50)" or "int unsigned".
type StoreType struct {
	// Raw is the input with surrounding whitespace removed.
	Raw string
	// Base is the lower-cased type name without arguments, e.g. "character varying".
	Base      string
	Size      *int
	Precision *int
	Scale     *int
	Max       bool
	Unsigned  bool
	Array     bool
	// Values holds the quoted members of an enum or set, in declaration order.
	Values []string
}

// ParseStoreType splits a store type into its base name and facets.
// Whitespace is collapsed and names are lower-cased; Raw keeps the original spelling.
func ParseStoreType(storeType string) (StoreType, error) {
	raw := strings.TrimSpace(storeType)
	st := StoreType{Raw: raw}

	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))

	for strings.HasSuffix(normalized, "[]") {
		st.Array = true
		normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "[]"))
	}

	open := strings.Index(normalized, "(")
	if open < 0 {
		if strings.Contains(normalized, ")") {
			return StoreType{}, fmt.Errorf("%w: %q", ErrMalformedStoreType, storeType)
		}

		st.Base = st.stripModifiers(normalized)

		return st, nil
	}

	closing := strings.LastIndex(normalized, ")")
	if closing < open {
		return StoreType{}, fmt.Errorf("%w: %q", ErrMalformedStoreType, storeType)
	}

	// "timestamp(3) with time zone" keeps the trailing words in the base name.
	base := strings.TrimSpace(normalized[:open])
	if rest := strings.TrimSpace(normalized[closing+1:]); rest != "" {
		base = base + " " + rest
	}

	st.Base = st.stripModifiers(base)

	if args := strings.TrimSpace(normalized[open+1 : closing]); strings.HasPrefix(args, "'") {
		// enum('new','paid'): members are labels, not lengths
		values, err := parseQuotedValues(raw[strings.Index(raw, "(")+1 : strings.LastIndex(raw, ")")])
		if err != nil {
			return StoreType{}, fmt.Errorf("%w: %q", err, storeType)
		}

		st.Values = values

		return st, nil
	}

	if err := st.parseArguments(normalized[open+1 : closing]); err != nil {
		return StoreType{}, fmt.Errorf("%w: %q", err, storeType)
	}

	return st, nil
}

func (st *StoreType) stripModifiers(base string) string {
	words := strings.Fields(base)
	kept := words[:0]

	for _, word := range words {
		switch word {
		case "unsigned":
			st.Unsigned = true
		case "signed", "zerofill":
		default:
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}

func (st *StoreType) parseArguments(args string) error {
	parts := strings.Split(args, ",")
	values := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "max" && len(parts) == 1 {
			st.Max = true
			return nil
		}

		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return ErrMalformedStoreType
		}

		values = append(values, n)
	}

	switch len(values) {
	case 1:
		st.Size = IntPtr(values[0])
	case 2:
		st.Precision = IntPtr(values[0])
		st.Scale = IntPtr(values[1])
	default:
		return ErrMalformedStoreType
	}

	return nil
}

// parseQuotedValues splits a list of single-quoted labels. A doubled quote escapes a quote.
func parseQuotedValues(args string) ([]string, error) {
	var values []string

	rest := strings.TrimSpace(args)
	for {
		if !strings.HasPrefix(rest, "'") {
			return nil, ErrMalformedStoreType
		}

		var b strings.Builder

		i := 1
		for ; i < len(rest); i++ {
			if rest[i] != '\'' {
				b.WriteByte(rest[i])
				continue
			}

			if i+1 < len(rest) && rest[i+1] == '\'' {
				b.WriteByte('\'')
				i++

				continue
			}

			break
		}

		if i >= len(rest) {
			return nil, ErrMalformedStoreType
		}

		values = append(values, b.String())

		rest = strings.TrimSpace(rest[i+1:])
		if rest == "" {
			return values, nil
		}

		if !strings.HasPrefix(rest, ",") {
			return nil, ErrMalformedStoreType
		}

		rest = strings.TrimSpace(rest[1:])
	}
}

// HasArguments reports whether the store type carried a parenthesized argument list.
func (st StoreType) HasArguments() bool {
	return st.Max || st.Size != nil || st.Precision != nil || len(st.Values) > 0
}
