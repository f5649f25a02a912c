package gateway

// 交易所与代币合约的 ABI，手工维护，只包含终端用到的方法和事件

const exchangeABIJSON = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"_token","type":"address"},{"name":"_user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"depositEther","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdrawEther","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"depositToken","stateMutability":"nonpayable","inputs":[{"name":"_token","type":"address"},{"name":"_amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdrawToken","stateMutability":"nonpayable","inputs":[{"name":"_token","type":"address"},{"name":"_amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"makeOrder","stateMutability":"nonpayable","inputs":[{"name":"_tokenGet","type":"address"},{"name":"_amountGet","type":"uint256"},{"name":"_tokenGive","type":"address"},{"name":"_amountGive","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"cancelOrder","stateMutability":"nonpayable","inputs":[{"name":"_id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"fillOrder","stateMutability":"nonpayable","inputs":[{"name":"_id","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"Deposit","anonymous":false,"inputs":[{"name":"token","type":"address","indexed":false},{"name":"user","type":"address","indexed":false},{"name":"amount","type":"uint256","indexed":false},{"name":"balance","type":"uint256","indexed":false}]},
  {"type":"event","name":"Withdraw","anonymous":false,"inputs":[{"name":"token","type":"address","indexed":false},{"name":"user","type":"address","indexed":false},{"name":"amount","type":"uint256","indexed":false},{"name":"balance","type":"uint256","indexed":false}]},
  {"type":"event","name":"Order","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":false},{"name":"user","type":"address","indexed":false},{"name":"tokenGet","type":"address","indexed":false},{"name":"amountGet","type":"uint256","indexed":false},{"name":"tokenGive","type":"address","indexed":false},{"name":"amountGive","type":"uint256","indexed":false},{"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"Cancel","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":false},{"name":"user","type":"address","indexed":false},{"name":"tokenGet","type":"address","indexed":false},{"name":"amountGet","type":"uint256","indexed":false},{"name":"tokenGive","type":"address","indexed":false},{"name":"amountGive","type":"uint256","indexed":false},{"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"Trade","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":false},{"name":"user","type":"address","indexed":false},{"name":"tokenGet","type":"address","indexed":false},{"name":"amountGet","type":"uint256","indexed":false},{"name":"tokenGive","type":"address","indexed":false},{"name":"amountGive","type":"uint256","indexed":false},{"name":"userFill","type":"address","indexed":false},{"name":"timestamp","type":"uint256","indexed":false}]}
]`

const erc20ABIJSON = `[
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"_owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"_from","type":"address"},{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
  {"type":"event","name":"Approval","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":true},{"name":"spender","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`
