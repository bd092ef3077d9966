package erc20

import (
	"bytes"
	"fmt"
	"math/big"
)

// nullBytes32 is the reserved sentinel some legacy tokens return instead of
// reverting: 32 bytes of zero with a trailing one. It is treated as absent.
func isNullBytes32(value [32]byte) bool {
	for _, b := range value[:31] {
		if b != 0 {
			return false
		}
	}
	return value[31] == 1
}

func bytes32ToString(value interface{}) (string, bool) {
	var raw [32]byte
	switch v := value.(type) {
	case [32]byte:
		raw = v
	case []byte:
		if len(v) != 32 {
			return "", false
		}
		copy(raw[:], v)
	default:
		return "", false
	}

	if isNullBytes32(raw) {
		return "", false
	}
	trimmed := bytes.TrimRight(raw[:], "\x00")
	if len(trimmed) == 0 {
		return "", false
	}
	return string(trimmed), true
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
