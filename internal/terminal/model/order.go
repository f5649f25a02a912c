package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EtherAddress 占位地址，订单/余额记录中表示链原生币而非 ERC-20 代币
var EtherAddress = common.Address{}

// Order 链上订单记录，观测到之后不可变
// id 由交易所合约分配，全局唯一
type Order struct {
	ID         uint64         `json:"id"`
	User       common.Address `json:"user"`
	TokenGet   common.Address `json:"tokenGet"`
	AmountGet  *big.Int       `json:"amountGet"`
	TokenGive  common.Address `json:"tokenGive"`
	AmountGive *big.Int       `json:"amountGive"`
	Timestamp  int64          `json:"timestamp"`
}

// Trade 已成交订单，UserFill 为吃单方
type Trade struct {
	Order
	UserFill common.Address `json:"userFill"`
}

// TransferEvent 交易所 Deposit / Withdraw 事件
type TransferEvent struct {
	Token   common.Address `json:"token"`
	User    common.Address `json:"user"`
	Amount  *big.Int       `json:"amount"`
	Balance *big.Int       `json:"balance"`
}
