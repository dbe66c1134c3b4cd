package poll

import (
	"fmt"
	"math/big"
	"strings"
)

// NativeDecimals Citrea 原生币 cBTC 的精度
const NativeDecimals = 18

// ParseAmount 把十进制金额字符串转成链上最小单位的整数
// 小数部分超过 decimals 位的直接截断
func ParseAmount(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("%w: signed amount %q", ErrInvalidAmount, s)
	}
	if strings.Count(s, ".") > 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	// 小数部分右补零到 decimals 位，多余的截断
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else {
		frac = frac[:decimals]
	}

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// FormatAmount 把链上最小单位整数还原为十进制字符串，去掉尾部多余的零
func FormatAmount(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(v, divisor, new(big.Int))

	if rem.Sign() == 0 {
		return quo.String()
	}

	frac := fmt.Sprintf("%0*s", decimals, rem.String())
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return quo.String()
	}
	return quo.String() + "." + frac
}

// TargetFund 自动计算目标资金: 单次奖励 * 最大响应数
func TargetFund(rewardPerResponse *big.Int, maxResponses int64) *big.Int {
	if rewardPerResponse == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(rewardPerResponse, big.NewInt(maxResponses))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
