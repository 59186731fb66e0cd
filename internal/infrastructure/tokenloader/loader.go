// Package tokenloader reads operator supplied token lists from disk.
package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

const defaultDirectory = "data/tokens"

// maxDecimals bounds what 10^decimals arithmetic is asked to handle.
const maxDecimals = 36

// listExtensions are tried in order; the first existing file wins.
var listExtensions = []string{".json", ".yaml", ".yml"} //nolint:gochecknoglobals

// FileLoader implements port.TokenProvider over a directory holding one list
// per network, named after the network identifier.
type FileLoader struct {
	dir    string
	logger port.Logger
}

// NewTokenLoader creates a FileLoader. An empty dir selects data/tokens.
func NewTokenLoader(dir string, logger port.Logger) port.TokenProvider {
	if dir == "" {
		dir = defaultDirectory
	}
	return &FileLoader{dir: dir, logger: logger}
}

// GetTokensByNetwork returns the valid entries of each network's list. A
// missing directory yields no tokens; an unreadable list is skipped with a
// warning, as are individual invalid entries.
func (l *FileLoader) GetTokensByNetwork(networks []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	out := make(map[string][]entity.TokenInfo)

	info, err := os.Stat(l.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.logger.Debug("Token directory not found, using built-in tokens only", "path", l.dir)
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read token directory %s: %w", l.dir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("token directory %s is not a directory", l.dir)
	}

	for _, network := range networks {
		path, ok := l.listFor(network.Identifier)
		if !ok {
			continue
		}
		list, err := readList(path)
		if err != nil {
			l.logger.Warn("Skipping unreadable token list", "path", path, "error", err)
			continue
		}
		if valid := l.sanitize(path, list); len(valid) > 0 {
			out[network.Identifier] = valid
			l.logger.Info("Loaded token list", "network", network.Identifier, "path", path, "count", len(valid))
		}
	}
	return out, nil
}

func (l *FileLoader) listFor(identifier string) (string, bool) {
	for _, ext := range listExtensions {
		path := filepath.Join(l.dir, identifier+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func readList(path string) ([]entity.TokenInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []entity.TokenInfo
	if filepath.Ext(path) == ".json" {
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &list)
	} else {
		err = yaml.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return list, nil
}

// sanitize checksums addresses, pins native entries to the zero address and
// keeps the first entry per symbol.
func (l *FileLoader) sanitize(path string, list []entity.TokenInfo) []entity.TokenInfo {
	seen := make(map[string]struct{}, len(list))
	valid := make([]entity.TokenInfo, 0, len(list))
	for _, t := range list {
		t.Symbol = strings.TrimSpace(t.Symbol)
		if t.Symbol == "" {
			l.logger.Warn("Skipping token without symbol", "path", path, "address", t.Address)
			continue
		}
		key := strings.ToUpper(t.Symbol)
		if _, dup := seen[key]; dup {
			l.logger.Warn("Skipping duplicate token symbol", "path", path, "symbol", t.Symbol)
			continue
		}
		if t.Decimals > maxDecimals {
			l.logger.Warn("Skipping token with unsupported decimals", "path", path, "symbol", t.Symbol, "decimals", t.Decimals)
			continue
		}
		if t.IsNative {
			t.Address = entity.ZeroAddress
		} else {
			addr, err := utils.ValidateAddress(t.Address)
			if err != nil {
				l.logger.Warn("Skipping token with invalid address", "path", path, "symbol", t.Symbol, "error", err)
				continue
			}
			t.Address = addr.Hex()
		}
		seen[key] = struct{}{}
		valid = append(valid, t)
	}
	return valid
}
