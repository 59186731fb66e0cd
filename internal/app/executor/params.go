package executor

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Params is the typed view over one item's parameters.
type Params struct {
	lookup    entity.ParameterLookup
	itemIndex int
}

func NewParams(lookup entity.ParameterLookup, itemIndex int) Params {
	return Params{lookup: lookup, itemIndex: itemIndex}
}

// ParamsFor scopes the request's lookup to its item.
func ParamsFor(req entity.OperationRequest) Params {
	return NewParams(req.Lookup, req.ItemIndex)
}

// Raw returns the untyped value of a parameter. Empty strings count as unset.
func (p Params) Raw(name string) (any, bool) {
	if p.lookup == nil {
		return nil, false
	}
	v, ok := p.lookup(name, p.itemIndex)
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func (p Params) Has(name string) bool {
	_, ok := p.Raw(name)
	return ok
}

func missing(name string) error {
	return entity.NewInvalidInputError("parameter %q is required", name)
}

func invalid(name string, format string, args ...any) error {
	return entity.NewInvalidInputError("parameter %q: %s", name, fmt.Sprintf(format, args...))
}

func (p Params) String(name string) (string, error) {
	v, ok := p.Raw(name)
	if !ok {
		return "", missing(name)
	}
	return stringify(v), nil
}

func (p Params) StringOr(name, def string) string {
	v, ok := p.Raw(name)
	if !ok {
		return def
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case stdjson.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func (p Params) Int64(name string) (int64, error) {
	v, ok := p.Raw(name)
	if !ok {
		return 0, missing(name)
	}
	return toInt64(name, v)
}

func (p Params) Int64Or(name string, def int64) (int64, error) {
	v, ok := p.Raw(name)
	if !ok {
		return def, nil
	}
	return toInt64(name, v)
}

func toInt64(name string, v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, invalid(name, "value out of range")
		}
		return int64(t), nil
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > utils.MaxSafeInteger {
			return 0, invalid(name, "expected an integer, got %v", t)
		}
		return int64(t), nil
	default:
		n, err := strconv.ParseInt(stringify(v), 10, 64)
		if err != nil {
			return 0, invalid(name, "expected an integer, got %q", stringify(v))
		}
		return n, nil
	}
}

func (p Params) Float64(name string) (float64, error) {
	v, ok := p.Raw(name)
	if !ok {
		return 0, missing(name)
	}
	if f, isFloat := v.(float64); isFloat {
		return f, nil
	}
	f, err := strconv.ParseFloat(stringify(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(name, "expected a number, got %q", stringify(v))
	}
	return f, nil
}

func (p Params) Bool(name string, def bool) (bool, error) {
	v, ok := p.Raw(name)
	if !ok {
		return def, nil
	}
	if b, isBool := v.(bool); isBool {
		return b, nil
	}
	b, err := strconv.ParseBool(stringify(v))
	if err != nil {
		return false, invalid(name, "expected a boolean, got %q", stringify(v))
	}
	return b, nil
}

// Address reads a required EVM address.
func (p Params) Address(name string) (common.Address, error) {
	s, err := p.String(name)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := utils.ValidateAddress(s)
	if err != nil {
		return common.Address{}, invalid(name, "invalid address %q", s)
	}
	return addr, nil
}

// OptionalAddress reads an address that may be absent.
func (p Params) OptionalAddress(name string) (common.Address, bool, error) {
	if !p.Has(name) {
		return common.Address{}, false, nil
	}
	addr, err := p.Address(name)
	return addr, err == nil, err
}

// Amount reads a human decimal amount and scales it to base units. Zero and
// negative amounts are rejected.
func (p Params) Amount(name string, decimals uint8) (*big.Int, error) {
	s, err := p.String(name)
	if err != nil {
		return nil, err
	}
	amount, err := utils.DecimalToBaseUnits(s, decimals)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, invalid(name, "amount must be greater than zero")
	}
	return amount, nil
}

// BigInt reads a non-negative integer given as a number, decimal string or 0x hex.
func (p Params) BigInt(name string) (*big.Int, error) {
	v, ok := p.Raw(name)
	if !ok {
		return nil, missing(name)
	}
	if f, isFloat := v.(float64); isFloat {
		if f < 0 || f != math.Trunc(f) || f > utils.MaxSafeInteger {
			return nil, invalid(name, "expected a non-negative integer, got %v", f)
		}
		return new(big.Int).SetInt64(int64(f)), nil
	}
	n, parsed := utils.ParseBigInt(stringify(v))
	if !parsed || n.Sign() < 0 {
		return nil, invalid(name, "expected a non-negative integer, got %q", stringify(v))
	}
	return n, nil
}

func (p Params) BigIntOr(name string, def int64) (*big.Int, error) {
	if !p.Has(name) {
		return big.NewInt(def), nil
	}
	return p.BigInt(name)
}

func (p Params) Hash(name string) (common.Hash, error) {
	s, err := p.String(name)
	if err != nil {
		return common.Hash{}, err
	}
	h, err := utils.ValidateHash(s)
	if err != nil {
		return common.Hash{}, invalid(name, "invalid hash %q", s)
	}
	return h, nil
}

// JSON reads a structured parameter. Strings are decoded as JSON documents,
// anything else is returned as supplied by the host.
func (p Params) JSON(name string) (any, error) {
	v, ok := p.Raw(name)
	if !ok {
		return nil, missing(name)
	}
	s, isStr := v.(string)
	if !isStr {
		return v, nil
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, invalid(name, "invalid JSON: %v", err)
	}
	return out, nil
}

// JSONInto decodes a structured parameter into out.
func (p Params) JSONInto(name string, out any) error {
	v, err := p.JSON(name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return invalid(name, "invalid JSON: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return invalid(name, "unexpected shape: %v", err)
	}
	return nil
}

// StringSlice reads a list given as an array, a JSON array string or a
// comma separated string.
func (p Params) StringSlice(name string) ([]string, error) {
	v, ok := p.Raw(name)
	if !ok {
		return nil, missing(name)
	}
	var out []string
	switch t := v.(type) {
	case []string:
		out = t
	case []any:
		for _, e := range t {
			out = append(out, stringify(e))
		}
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return nil, invalid(name, "invalid JSON array: %v", err)
			}
			for _, e := range arr {
				out = append(out, stringify(e))
			}
		} else {
			out = utils.SplitList(s)
		}
	default:
		return nil, invalid(name, "expected a list")
	}
	if len(out) == 0 {
		return nil, invalid(name, "list is empty")
	}
	return out, nil
}

// Addresses reads a list of addresses; every entry must be valid.
func (p Params) Addresses(name string) ([]common.Address, error) {
	items, err := p.StringSlice(name)
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(items))
	for _, s := range items {
		addr, err := utils.ValidateAddress(s)
		if err != nil {
			return nil, invalid(name, "invalid address %q", s)
		}
		out = append(out, addr)
	}
	return out, nil
}

// Enum reads a string restricted to a set of values (case-insensitive).
func (p Params) Enum(name, def string, allowed ...string) (string, error) {
	s := p.StringOr(name, def)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a, nil
		}
	}
	return "", invalid(name, "must be one of %s", strings.Join(allowed, ", "))
}
