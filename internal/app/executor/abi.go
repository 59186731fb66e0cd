package executor

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"unicode"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// parseFunctionSignature builds a method from a human readable signature such
// as "function balanceOf(address owner) view returns (uint256)". Tuple types
// are not supported.
func parseFunctionSignature(sig string) (abi.Method, error) {
	s := strings.TrimSpace(sig)
	s = strings.TrimPrefix(s, "function ")
	s = strings.TrimSpace(s)

	open := strings.IndexByte(s, '(')
	if open <= 0 {
		return abi.Method{}, entity.NewInvalidInputError("invalid function signature %q", sig)
	}
	name := strings.TrimSpace(s[:open])
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			return abi.Method{}, entity.NewInvalidInputError("invalid function name in %q", sig)
		}
	}

	inputs, rest, err := splitParenList(s[open:])
	if err != nil {
		return abi.Method{}, entity.NewInvalidInputError("invalid function signature %q: %v", sig, err)
	}

	mutability := "nonpayable"
	var outputs []string
	fields := strings.Fields(strings.ReplaceAll(rest, "(", " ("))
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "view", "pure", "payable", "nonpayable":
			mutability = fields[i]
		case "external", "public":
		case "returns":
			outList := strings.TrimSpace(rest[strings.Index(rest, "returns")+len("returns"):])
			outputs, _, err = splitParenList(outList)
			if err != nil {
				return abi.Method{}, entity.NewInvalidInputError("invalid return list in %q: %v", sig, err)
			}
			i = len(fields)
		default:
			return abi.Method{}, entity.NewInvalidInputError("unexpected %q in function signature", fields[i])
		}
	}

	inArgs, err := buildArguments(inputs)
	if err != nil {
		return abi.Method{}, err
	}
	outArgs, err := buildArguments(outputs)
	if err != nil {
		return abi.Method{}, err
	}
	isConst := mutability == "view" || mutability == "pure"
	return abi.NewMethod(name, name, abi.Function, mutability, isConst, mutability == "payable", inArgs, outArgs), nil
}

// splitParenList parses "(a b, c d) rest" into its comma separated entries
// and the remainder after the closing parenthesis.
func splitParenList(s string) ([]string, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return nil, "", fmt.Errorf("expected '('")
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				body := strings.TrimSpace(s[1:i])
				if strings.ContainsAny(body, "()") {
					return nil, "", fmt.Errorf("tuple types are not supported")
				}
				var parts []string
				if body != "" {
					for _, part := range strings.Split(body, ",") {
						parts = append(parts, strings.TrimSpace(part))
					}
				}
				return parts, strings.TrimSpace(s[i+1:]), nil
			}
		}
	}
	return nil, "", fmt.Errorf("unbalanced parentheses")
}

func buildArguments(params []string) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(params))
	for i, param := range params {
		fields := strings.Fields(param)
		if len(fields) == 0 {
			return nil, entity.NewInvalidInputError("empty parameter at position %d", i)
		}
		typ, err := abi.NewType(canonicalType(fields[0]), "", nil)
		if err != nil {
			return nil, entity.NewInvalidInputError("unsupported type %q: %v", fields[0], err)
		}
		name := ""
		if len(fields) > 1 {
			name = fields[len(fields)-1]
			if name == "memory" || name == "calldata" || name == "storage" {
				name = ""
			}
		}
		args = append(args, abi.Argument{Name: name, Type: typ})
	}
	return args, nil
}

func canonicalType(t string) string {
	switch {
	case t == "uint":
		return "uint256"
	case t == "int":
		return "int256"
	case strings.HasPrefix(t, "uint["):
		return "uint256" + t[len("uint"):]
	case strings.HasPrefix(t, "int["):
		return "int256" + t[len("int"):]
	}
	return t
}

// methodFromABI picks functionName out of a JSON ABI document.
func methodFromABI(abiJSON string, functionName string) (abi.Method, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return abi.Method{}, entity.NewInvalidInputError("invalid ABI: %v", err)
	}
	m, ok := parsed.Methods[functionName]
	if !ok {
		return abi.Method{}, entity.NewNotFoundError("function %q not found in ABI", functionName)
	}
	return m, nil
}

// encodeCall packs converted args with the method selector.
func encodeCall(m abi.Method, rawArgs []any) ([]byte, error) {
	if len(rawArgs) != len(m.Inputs) {
		return nil, entity.NewInvalidInputError("%s expects %d arguments, got %d", m.Name, len(m.Inputs), len(rawArgs))
	}
	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		v, err := convertArg(m.Inputs[i].Type, raw)
		if err != nil {
			return nil, entity.NewInvalidInputError("argument %d (%s): %v", i, m.Inputs[i].Type.String(), err)
		}
		args[i] = v
	}
	packed, err := m.Inputs.Pack(args...)
	if err != nil {
		return nil, entity.NewInvalidInputError("failed to encode %s: %v", m.Name, err)
	}
	return append(append([]byte{}, m.ID...), packed...), nil
}

// convertArg turns a host value (string, float64, bool, []any) into the Go
// type go-ethereum expects for t.
func convertArg(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		return utils.ValidateAddress(stringify(v))
	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		default:
			s := strings.ToLower(stringify(v))
			if s == "true" || s == "false" {
				return s == "true", nil
			}
			return nil, fmt.Errorf("expected a boolean")
		}
	case abi.StringTy:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return stringify(v), nil
	case abi.IntTy, abi.UintTy:
		return convertInteger(t, v)
	case abi.BytesTy:
		b, err := hexutil.Decode(stringify(v))
		if err != nil {
			return nil, fmt.Errorf("expected 0x-prefixed hex bytes: %v", err)
		}
		return b, nil
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(stringify(v))
		if err != nil {
			return nil, fmt.Errorf("expected 0x-prefixed hex bytes: %v", err)
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		items, err := asList(v)
		if err != nil {
			return nil, err
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		} else {
			out = reflect.New(t.GetType()).Elem()
		}
		for i, item := range items {
			conv, err := convertArg(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %v", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(conv))
		}
		return out.Interface(), nil
	}
	return nil, fmt.Errorf("type %s is not supported", t.String())
}

func asList(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	case string:
		var out []any
		if err := json.Unmarshal([]byte(t), &out); err != nil {
			return nil, fmt.Errorf("expected a JSON array: %v", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list")
}

func convertInteger(t abi.Type, v any) (any, error) {
	var n *big.Int
	if f, ok := v.(float64); ok {
		if f != float64(int64(f)) || f > utils.MaxSafeInteger || f < -utils.MaxSafeInteger {
			return nil, fmt.Errorf("number %v is not a safe integer, pass it as a string", f)
		}
		n = big.NewInt(int64(f))
	} else {
		s := stringify(v)
		neg := strings.HasPrefix(s, "-")
		parsed, ok := utils.ParseBigInt(strings.TrimPrefix(s, "-"))
		if !ok {
			return nil, fmt.Errorf("expected an integer, got %q", s)
		}
		if neg {
			parsed.Neg(parsed)
		}
		n = parsed
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s out of range for uint%d", n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s out of range for int%d", n, t.Size)
		}
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}
	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

// normalize converts decoded ABI values into JSON-safe shapes: big integers
// and 64-bit values become decimal strings, addresses are checksummed and
// byte values are hex encoded.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *big.Int:
		if t == nil {
			return "0"
		}
		return t.String()
	case common.Address:
		return t.Hex()
	case common.Hash:
		return t.Hex()
	case []byte:
		return hexutil.Encode(t)
	case string, bool:
		return t
	case uint8, uint16, uint32, int8, int16, int32:
		return t
	case uint64:
		return utils.JSONUint(t)
	case int64:
		if t > utils.MaxSafeInteger || t < -utils.MaxSafeInteger {
			return fmt.Sprint(t)
		}
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		fallthrough
	case reflect.Slice:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Type().Field(i)
			if !f.IsExported() {
				continue
			}
			out[lowerFirst(f.Name)] = normalize(rv.Field(i).Interface())
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// namedOutputs maps decoded outputs onto their ABI names (or output0..N).
func namedOutputs(m abi.Method, values []any) map[string]any {
	out := make(map[string]any, len(values))
	for i, v := range values {
		name := fmt.Sprintf("output%d", i)
		if i < len(m.Outputs) && m.Outputs[i].Name != "" {
			name = m.Outputs[i].Name
		}
		out[name] = normalize(v)
	}
	return out
}
