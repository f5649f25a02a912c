package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// 链上金额统一为 18 位定点整数
const EtherDecimals = 18

var baseUnit = decimal.New(1, EtherDecimals)

// ToDisplayUnits 将原始整数金额转换为展示单位
// 输入为 nil 或 0 时视为"尚未加载"，ok 返回 false，调用方不能把 0 和未设置混为一谈
func ToDisplayUnits(wei *big.Int) (decimal.Decimal, bool) {
	if wei == nil || wei.Sign() == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromBigInt(wei, 0).Div(baseUnit), true
}

// FormatBalance 余额展示值，保留 2 位小数
func FormatBalance(wei *big.Int) decimal.Decimal {
	v, ok := ToDisplayUnits(wei)
	if !ok {
		return decimal.Zero
	}
	return v.Round(2)
}

// ToBaseUnits 展示单位转换回原始整数金额，提交交易前调用
func ToBaseUnits(amount decimal.Decimal) *big.Int {
	return amount.Mul(baseUnit).BigInt()
}
