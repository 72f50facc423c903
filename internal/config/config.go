package config

import (
	"FocusTimer/internal/models"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig       `yaml:"app"`
	Storage StorageConfig   `yaml:"storage"`
	Audio   AudioConfig     `yaml:"audio"`
	Log     LogConfig       `yaml:"log"`
	API     APIConfig       `yaml:"api"`
	Presets []models.Preset `yaml:"presets"`
}

type AppConfig struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

type StorageConfig struct {
	Driver        string        `yaml:"driver"` // sqlite, postgres, redis, memory
	Path          string        `yaml:"path"`
	DSN           string        `yaml:"dsn"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	KeyPrefix     string        `yaml:"key_prefix"`
	OpTimeout     time.Duration `yaml:"op_timeout"`
}

type AudioConfig struct {
	Sink          string        `yaml:"sink"` // speaker, pulse
	SampleRate    int           `yaml:"sample_rate"`
	Buffer        time.Duration `yaml:"buffer"`
	UnlockTimeout time.Duration `yaml:"unlock_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "Focus Timer",
			Version:      "1.0.0",
			WindowWidth:  480,
			WindowHeight: 640,
		},
		Storage: StorageConfig{
			Driver:    "sqlite",
			Path:      "focus-timer.db",
			KeyPrefix: "focus-timer:",
			OpTimeout: 2 * time.Second,
		},
		Audio: AudioConfig{
			Sink:          "speaker",
			SampleRate:    44100,
			Buffer:        100 * time.Millisecond,
			UnlockTimeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			Addr: "127.0.0.1:7345",
		},
		Presets: models.DefaultPresets(),
	}
}

type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
}

// NewManager 加载配置文件，path 为空时使用用户目录下的默认位置
func NewManager(path string) (*Manager, error) {
	if path == "" {
		configDir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(configDir, "config.yaml")
	}

	manager := &Manager{
		configPath: path,
	}

	// 加载或创建配置
	if err := manager.loadConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		manager.config = DefaultConfig()
		manager.resolvePaths()
		if err := manager.SaveConfig(); err != nil {
			return nil, err
		}
	}

	return manager, nil
}

func (m *Manager) loadConfig() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	// 未出现在文件中的字段保留默认值
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return err
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	m.resolvePaths()
	return nil
}

// 相对的数据库路径放在配置目录下
func (m *Manager) resolvePaths() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config.Storage.Path != "" && !filepath.IsAbs(m.config.Storage.Path) {
		m.config.Storage.Path = filepath.Join(filepath.Dir(m.configPath), m.config.Storage.Path)
	}
}

func (m *Manager) SaveConfig() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.config)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	// 确保配置目录存在
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	return os.WriteFile(m.configPath, data, 0644)
}

func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *Manager) Path() string {
	return m.configPath
}

// 获取配置文件目录
func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".focus-timer"), nil
}

func (m *Manager) UpdatePresets(presets []models.Preset) error {
	m.mu.Lock()
	m.config.Presets = presets
	m.mu.Unlock()
	return m.SaveConfig()
}

// 监听配置变化
type ConfigChangeCallback func(*Config)

// WatchConfig 在配置文件被写入后重新加载并回调，返回的函数用于停止监听。
// 监听的是所在目录，编辑器先删除再重建文件时也能收到事件。
func (m *Manager) WatchConfig(callback ConfigChangeCallback) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(m.configPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(m.configPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := m.loadConfig(); err != nil {
					// 写入一半的文件，等下一次事件
					continue
				}
				if callback != nil {
					callback(m.GetConfig())
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() error {
		err := watcher.Close()
		<-done
		return err
	}, nil
}
