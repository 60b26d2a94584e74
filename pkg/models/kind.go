package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies categories and operations as money coming in or going out.
type Kind int

const (
	Income Kind = iota
	Expense
)

func (k Kind) String() string {
	switch k {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// ParseKind accepts the kind names (case insensitive) and their numeric values.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	if n, err := strconv.Atoi(s); err == nil && Kind(n).Valid() {
		return Kind(n), nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal %v", k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// UnmarshalJSON takes either the name or the numeric enum value.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return k.UnmarshalText([]byte(name))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("kind must be a name or a number: %w", err)
	}
	if !Kind(n).Valid() {
		return fmt.Errorf("unknown kind %d", n)
	}
	*k = Kind(n)
	return nil
}

// EntityKind names one of the three record collections of a ledger.
type EntityKind int

const (
	AccountEntity EntityKind = iota
	CategoryEntity
	OperationEntity
)

func (e EntityKind) String() string {
	switch e {
	case AccountEntity:
		return "account"
	case CategoryEntity:
		return "category"
	case OperationEntity:
		return "operation"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(e))
	}
}

// ParseEntityKind accepts singular or plural names, e.g. "account" or "accounts".
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "account":
		return AccountEntity, nil
	case "categorie", "category":
		return CategoryEntity, nil
	case "operation":
		return OperationEntity, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}
