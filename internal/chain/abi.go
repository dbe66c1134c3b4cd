package chain

// BPolls 主合约ABI（内置版，可用 abi_path 配置覆盖）
const bpollsABI = `[
	{
		"inputs": [],
		"name": "getAllPollIds",
		"outputs": [{"name": "", "type": "uint256[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "pollId", "type": "uint256"}],
		"name": "getPoll",
		"outputs": [{
			"name": "",
			"type": "tuple",
			"components": [
				{"name": "creator", "type": "address"},
				{"name": "subject", "type": "string"},
				{"name": "description", "type": "string"},
				{"name": "category", "type": "string"},
				{"name": "status", "type": "string"},
				{"name": "viewType", "type": "string"},
				{"name": "options", "type": "string[]"},
				{"name": "rewardPerResponse", "type": "uint256"},
				{"name": "maxResponses", "type": "uint256"},
				{"name": "durationDays", "type": "uint256"},
				{"name": "minContribution", "type": "uint256"},
				{"name": "fundingType", "type": "string"},
				{"name": "targetFund", "type": "uint256"},
				{"name": "endTime", "type": "uint256"},
				{"name": "isOpen", "type": "bool"},
				{"name": "totalResponses", "type": "uint256"},
				{"name": "funds", "type": "uint256"},
				{"name": "rewardToken", "type": "address"},
				{"name": "rewardDistribution", "type": "string"}
			]
		}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "pollId", "type": "uint256"}],
		"name": "getPollResponses",
		"outputs": [{
			"name": "",
			"type": "tuple[]",
			"components": [
				{"name": "responder", "type": "address"},
				{"name": "response", "type": "string"},
				{"name": "weight", "type": "uint256"},
				{"name": "timestamp", "type": "uint256"},
				{"name": "isClaimed", "type": "bool"},
				{"name": "reward", "type": "uint256"}
			]
		}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "pollId", "type": "uint256"},
			{"name": "response", "type": "string"}
		],
		"name": "submitResponse",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{
			"name": "params",
			"type": "tuple",
			"components": [
				{"name": "creator", "type": "address"},
				{"name": "subject", "type": "string"},
				{"name": "description", "type": "string"},
				{"name": "category", "type": "string"},
				{"name": "viewType", "type": "string"},
				{"name": "options", "type": "string[]"},
				{"name": "rewardPerResponse", "type": "uint256"},
				{"name": "durationDays", "type": "uint256"},
				{"name": "maxResponses", "type": "uint256"},
				{"name": "minContribution", "type": "uint256"},
				{"name": "fundingType", "type": "string"},
				{"name": "isOpenImmediately", "type": "bool"},
				{"name": "targetFund", "type": "uint256"},
				{"name": "rewardToken", "type": "address"},
				{"name": "rewardDistribution", "type": "string"}
			]
		}],
		"name": "createPoll",
		"outputs": [{"name": "pollId", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "pollId", "type": "uint256"}],
		"name": "openPoll",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "pollId", "type": "uint256"}],
		"name": "forFunding",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "pollId", "type": "uint256"}],
		"name": "forClaiming",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "pollId", "type": "uint256"}],
		"name": "closePoll",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "pollId", "type": "uint256"},
			{"indexed": true, "name": "creator", "type": "address"},
			{"indexed": false, "name": "subject", "type": "string"}
		],
		"name": "PollCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "pollId", "type": "uint256"},
			{"indexed": true, "name": "responder", "type": "address"},
			{"indexed": false, "name": "response", "type": "string"}
		],
		"name": "ResponseSubmitted",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "pollId", "type": "uint256"},
			{"indexed": false, "name": "status", "type": "string"}
		],
		"name": "PollStatusChanged",
		"type": "event"
	}
]`
