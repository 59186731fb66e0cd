package executor

import (
	"context"
	"math/big"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/contracts"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	defaultLogSpan = 1000
	maxLogResults  = 1000
)

func eventsDescriptors() []Descriptor {
	return []Descriptor{
		describe(ResourceEvents, OpGetLogs, NeedChain, eventsGetLogs),
		describe(ResourceEvents, OpGetTransferEvents, NeedChain, eventsGetTransferEvents),
	}
}

func readTopics(p Params) ([][]common.Hash, error) {
	if !p.Has("topics") {
		return nil, nil
	}
	raw, err := p.StringSlice("topics")
	if err != nil {
		return nil, err
	}
	if len(raw) > 4 {
		return nil, invalid("topics", "at most 4 topics")
	}
	topics := make([][]common.Hash, len(raw))
	for i, s := range raw {
		if s == "" || s == "null" {
			continue
		}
		h, err := utils.ValidateHash(s)
		if err != nil {
			return nil, invalid("topics", "invalid topic %q", s)
		}
		topics[i] = []common.Hash{h}
	}
	return topics, nil
}

func limitLogs(logs []types.Log, p Params) ([]types.Log, bool, error) {
	limit, err := p.Int64Or("limit", maxLogResults)
	if err != nil {
		return nil, false, err
	}
	if limit < 1 || limit > maxLogResults {
		return nil, false, invalid("limit", "must be between 1 and %d", maxLogResults)
	}
	if int64(len(logs)) > limit {
		return logs[:limit], true, nil
	}
	return logs, false, nil
}

func eventsGetLogs(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	topics, err := readTopics(p)
	if err != nil {
		return nil, err
	}
	from, to, err := blockRange(ctx, env.Chain, p, defaultLogSpan)
	if err != nil {
		return nil, err
	}
	logs, err := env.Chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: from,
		ToBlock:   to,
		Addresses: []common.Address{addr},
		Topics:    topics,
	})
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	logs, truncated, err := limitLogs(logs, p)
	if err != nil {
		return nil, err
	}
	entries := make([]map[string]any, len(logs))
	for i, l := range logs {
		entries[i] = logFields(l)
	}
	return entity.Fields{
		"contractAddress": addr.Hex(),
		"fromBlock":       normalize(from),
		"toBlock":         blockLabel(to),
		"logs":            entries,
		"count":           len(entries),
		"truncated":       truncated,
	}, nil
}

func blockLabel(n *big.Int) any {
	if n == nil {
		return "latest"
	}
	return normalize(n)
}

// eventsGetTransferEvents decodes ERC-20 and ERC-721 Transfer logs. ERC-721
// logs carry the token id as a third indexed topic.
func eventsGetTransferEvents(ctx context.Context, env *Env, p Params) (entity.Fields, error) {
	addr, err := p.Address("contractAddress")
	if err != nil {
		return nil, err
	}
	fromFilter, hasFrom, err := p.OptionalAddress("from")
	if err != nil {
		return nil, err
	}
	toFilter, hasTo, err := p.OptionalAddress("to")
	if err != nil {
		return nil, err
	}
	start, end, err := blockRange(ctx, env.Chain, p, defaultLogSpan)
	if err != nil {
		return nil, err
	}

	topics := [][]common.Hash{{contracts.TransferEventTopic()}, nil, nil}
	if hasFrom {
		topics[1] = []common.Hash{common.BytesToHash(fromFilter.Bytes())}
	}
	if hasTo {
		topics[2] = []common.Hash{common.BytesToHash(toFilter.Bytes())}
	}
	logs, err := env.Chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: start,
		ToBlock:   end,
		Addresses: []common.Address{addr},
		Topics:    topics,
	})
	if err != nil {
		return nil, entity.NewTransportError("rpc", err)
	}
	logs, truncated, err := limitLogs(logs, p)
	if err != nil {
		return nil, err
	}

	transfers := make([]map[string]any, 0, len(logs))
	for _, l := range logs {
		if len(l.Topics) < 3 {
			continue
		}
		t := map[string]any{
			"from":            common.BytesToAddress(l.Topics[1].Bytes()).Hex(),
			"to":              common.BytesToAddress(l.Topics[2].Bytes()).Hex(),
			"blockNumber":     utils.JSONUint(l.BlockNumber),
			"transactionHash": l.TxHash.Hex(),
			"logIndex":        l.Index,
		}
		if len(l.Topics) >= 4 {
			t["tokenId"] = l.Topics[3].Big().String()
			t["standard"] = standardERC721
		} else {
			t["value"] = new(big.Int).SetBytes(l.Data).String()
			t["standard"] = "erc20"
		}
		transfers = append(transfers, t)
	}
	return entity.Fields{
		"contractAddress": addr.Hex(),
		"fromBlock":       normalize(start),
		"toBlock":         blockLabel(end),
		"transfers":       transfers,
		"count":           len(transfers),
		"truncated":       truncated,
	}, nil
}
