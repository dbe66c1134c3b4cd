package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/bpolls/bpolls-bapp/internal/config"
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Manager 单链管理器，维护 Citrea 客户端连接和合约注册表
type Manager struct {
	mu         sync.RWMutex
	contracts  map[string]*Contract // 合约映射: "contractName" -> Contract
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey // 可选，未配置时只能读
	config     config.ChainConfig
}

// NewManager 创建链管理器
func NewManager(cfg config.ChainConfig) (*Manager, error) {
	manager := &Manager{
		contracts: make(map[string]*Contract),
		config:    cfg,
	}

	if err := manager.initClient(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	if err := manager.initContracts(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize contracts: %w", err)
	}

	return manager, nil
}

// initClient 初始化客户端并校验链ID
func (m *Manager) initClient(cfg config.ChainConfig) error {
	if cfg.RpcUrl == "" {
		return fmt.Errorf("no RPC URL configured")
	}

	logger.Info("Connecting to chain %d (RPC: %s)", cfg.ChainId, cfg.RpcUrl)
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// 链ID校验：连到错误网络直接拒绝启动，而不是等交易失败
	chainID, err := client.ChainID(context.Background())
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to query chain id: %w", err)
	}
	if chainID.Int64() != cfg.ChainId {
		client.Close()
		return fmt.Errorf("connected to wrong network: got chain %d, want %d", chainID.Int64(), cfg.ChainId)
	}

	// 解析签名私钥（可选）
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			client.Close()
			return fmt.Errorf("failed to parse private key: %w", err)
		}
		m.privateKey = key
	}

	m.client = client
	logger.Info("Successfully connected to chain %d", cfg.ChainId)
	return nil
}

// initContracts 初始化所有启用的合约
func (m *Manager) initContracts(cfg config.ChainConfig) error {
	for contractName, contractCfg := range cfg.Contracts {
		if !contractCfg.Enabled {
			logger.Info("Skipping disabled contract: %s", contractName)
			continue
		}
		if contractCfg.Address == "" {
			logger.Warn("Contract %s has no address configured, skipping", contractName)
			continue
		}

		logger.Info("Initializing contract: %s (address: %s)", contractName, contractCfg.Address)
		contract, err := NewContract(m.client, contractName, contractCfg)
		if err != nil {
			return fmt.Errorf("failed to create contract %s: %w", contractName, err)
		}

		m.contracts[contractName] = contract
	}

	logger.Info("Successfully initialized %d contracts", len(m.contracts))
	return nil
}

// GetClient 获取客户端
func (m *Manager) GetClient() *ethclient.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// GetContract 获取指定合约
func (m *Manager) GetContract(contractName string) (*Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	contract, exists := m.contracts[contractName]
	if !exists {
		return nil, fmt.Errorf("contract %s not found", contractName)
	}

	return contract, nil
}

// GetContracts 获取所有合约
func (m *Manager) GetContracts() map[string]*Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 返回副本以避免并发修改
	contracts := make(map[string]*Contract, len(m.contracts))
	for name, contract := range m.contracts {
		contracts[name] = contract
	}

	return contracts
}

// GetChainId 获取链ID
func (m *Manager) GetChainId() int64 {
	return m.config.ChainId
}

// GetConfig 获取链配置
func (m *Manager) GetConfig() config.ChainConfig {
	return m.config
}

// SignerAddress 服务端签名账户地址
func (m *Manager) SignerAddress() (common.Address, error) {
	if m.privateKey == nil {
		return common.Address{}, fmt.Errorf("no private key configured")
	}
	return crypto.PubkeyToAddress(m.privateKey.PublicKey), nil
}

// NewTransactOpts 创建带链ID的交易授权
func (m *Manager) NewTransactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	if m.privateKey == nil {
		return nil, fmt.Errorf("no private key configured, write operations disabled")
	}

	opts, err := bind.NewKeyedTransactorWithChainID(m.privateKey, big.NewInt(m.config.ChainId))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = value
	return opts, nil
}

// GetHealthStatus 获取健康状态
func (m *Manager) GetHealthStatus() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	health := map[string]interface{}{
		"chain_id":      m.config.ChainId,
		"currency":      m.config.Currency,
		"client_status": "connected",
		"contracts":     make(map[string]interface{}),
	}

	if m.client != nil {
		if _, err := m.client.BlockNumber(context.TODO()); err != nil {
			health["client_status"] = "disconnected"
		}
	} else {
		health["client_status"] = "not_initialized"
	}

	for contractName, contract := range m.contracts {
		health["contracts"].(map[string]interface{})[contractName] = map[string]interface{}{
			"address":   contract.GetAddress().Hex(),
			"block_num": contract.GetBlockNum(),
		}
	}

	return health
}

// Close 关闭管理器
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		m.client.Close()
	}

	logger.Info("Chain manager closed")
	return nil
}
