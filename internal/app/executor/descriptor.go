// Package executor maps (resource, operation) pairs onto the functions that
// perform them against the chain or the Beam API.
package executor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"beam_automation/internal/domain/entity"
)

// Resource is a logical grouping of operations.
type Resource string

const (
	ResourceWallet      Resource = "wallet"
	ResourceNFT         Resource = "nft"
	ResourceMarketplace Resource = "marketplace"
	ResourceGaming      Resource = "gaming"
	ResourceBridge      Resource = "bridge"
	ResourceDEX         Resource = "dex"
	ResourceStaking     Resource = "staking"
	ResourceContract    Resource = "contract"
	ResourceBlock       Resource = "block"
	ResourceTransaction Resource = "transaction"
	ResourceEvents      Resource = "events"
	ResourcePlayer      Resource = "player"
	ResourceAsset       Resource = "asset"
	ResourceUtility     Resource = "utility"
	ResourceMinting     Resource = "minting"
	ResourceMeritCircle Resource = "meritCircle"
	ResourceCollection  Resource = "collection"
)

// Operation names an action within a resource. The same name may appear under
// several resources.
type Operation string

const (
	OpGetBalance          Operation = "getBalance"
	OpGetTokenBalance     Operation = "getTokenBalance"
	OpGetAllBalances      Operation = "getAllBalances"
	OpGetBalances         Operation = "getBalances"
	OpTransfer            Operation = "transfer"
	OpTransferToken       Operation = "transferToken"
	OpGetNonce            Operation = "getNonce"
	OpGetAddress          Operation = "getAddress"
	OpGetOwner            Operation = "getOwner"
	OpGetMetadata         Operation = "getMetadata"
	OpApprove             Operation = "approve"
	OpSetApprovalForAll   Operation = "setApprovalForAll"
	OpIsApprovedForAll    Operation = "isApprovedForAll"
	OpGetListings         Operation = "getListings"
	OpGetListing          Operation = "getListing"
	OpCreateListing       Operation = "createListing"
	OpCancelListing       Operation = "cancelListing"
	OpBuyListing          Operation = "buyListing"
	OpMakeOffer           Operation = "makeOffer"
	OpGetOffers           Operation = "getOffers"
	OpAcceptOffer         Operation = "acceptOffer"
	OpCalculateLevel      Operation = "calculateLevel"
	OpCalculateElo        Operation = "calculateElo"
	OpGetRank             Operation = "getRank"
	OpCalculateRarity     Operation = "calculateRarity"
	OpAchievementProgress Operation = "achievementProgress"
	OpGetLeaderboard      Operation = "getLeaderboard"
	OpSubmitScore         Operation = "submitScore"
	OpGetPlayerStats      Operation = "getPlayerStats"
	OpEstimateFee         Operation = "estimateFee"
	OpBridgeTokens        Operation = "bridgeTokens"
	OpGetSupportedChains  Operation = "getSupportedChains"
	OpGetBridgeStatus     Operation = "getBridgeStatus"
	OpGetQuote            Operation = "getQuote"
	OpSwap                Operation = "swap"
	OpGetPair             Operation = "getPair"
	OpGetTokenPrice       Operation = "getTokenPrice"
	OpStake               Operation = "stake"
	OpUnstake             Operation = "unstake"
	OpClaimRewards        Operation = "claimRewards"
	OpGetStakeInfo        Operation = "getStakeInfo"
	OpRead                Operation = "read"
	OpWrite               Operation = "write"
	OpIsContract          Operation = "isContract"
	OpEncodeFunction      Operation = "encodeFunction"
	OpEstimateGas         Operation = "estimateGas"
	OpGetBlockNumber      Operation = "getBlockNumber"
	OpGetBlock            Operation = "getBlock"
	OpGetLatestBlock      Operation = "getLatestBlock"
	OpGetFeeData          Operation = "getFeeData"
	OpGetTransaction      Operation = "getTransaction"
	OpGetReceipt          Operation = "getReceipt"
	OpWaitForConfirmation Operation = "waitForConfirmation"
	OpGetLogs             Operation = "getLogs"
	OpGetTransferEvents   Operation = "getTransferEvents"
	OpGetProfile          Operation = "getProfile"
	OpCreateProfile       Operation = "createProfile"
	OpGetWallets          Operation = "getWallets"
	OpGetTransactions     Operation = "getTransactions"
	OpGetAssets           Operation = "getAssets"
	OpGetAsset            Operation = "getAsset"
	OpTransferAsset       Operation = "transferAsset"
	OpGetAssetHistory     Operation = "getAssetHistory"
	OpConvertUnits        Operation = "convertUnits"
	OpValidateAddress     Operation = "validateAddress"
	OpFormatAddress       Operation = "formatAddress"
	OpFormatDuration      Operation = "formatDuration"
	OpHashMessage         Operation = "hashMessage"
	OpResolveTokenURI     Operation = "resolveTokenUri"
	OpCalculateGasCost    Operation = "calculateGasCost"
	OpGetNetworkInfo      Operation = "getNetworkInfo"
	OpGetContractAddress  Operation = "getContractAddress"
	OpGetTokenInfo        Operation = "getTokenInfo"
	OpMintNFT             Operation = "mintNft"
	OpMintBatch           Operation = "mintBatch"
	OpGetMintStatus       Operation = "getMintStatus"
	OpGetStakingInfo      Operation = "getStakingInfo"
	OpGetPendingRewards   Operation = "getPendingRewards"
	OpConvertMcToBeam     Operation = "convertMcToBeam"
	OpGetInfo             Operation = "getInfo"
	OpGetStats            Operation = "getStats"
	OpGetOwners           Operation = "getOwners"
	OpGetFloorPrice       Operation = "getFloorPrice"
)

// OperationKey identifies one executor.
type OperationKey struct {
	Resource  Resource
	Operation Operation
}

func (k OperationKey) String() string {
	return fmt.Sprintf("%s.%s", k.Resource, k.Operation)
}

// Need declares which transports an executor uses. The dispatcher only builds
// what is declared.
type Need uint8

const (
	NeedChain Need = 1 << iota
	NeedSigner
	NeedAPI
	NeedPrices
	NeedMetadata
)

// Has reports whether all bits of x are set.
func (n Need) Has(x Need) bool { return n&x == x }

// RunFunc executes one operation. Implementations validate every parameter
// before touching a transport.
type RunFunc func(ctx context.Context, env *Env, p Params) (entity.Fields, error)

// Descriptor binds an operation to its executor.
type Descriptor struct {
	Key   OperationKey
	Needs Need
	Run   RunFunc
}

func describe(r Resource, op Operation, needs Need, run RunFunc) Descriptor {
	return Descriptor{Key: OperationKey{Resource: r, Operation: op}, Needs: needs, Run: run}
}

var (
	catalogueOnce sync.Once
	catalogue     map[OperationKey]Descriptor
)

func descriptorTables() [][]Descriptor {
	return [][]Descriptor{
		walletDescriptors(),
		nftDescriptors(),
		marketplaceDescriptors(),
		gamingDescriptors(),
		bridgeDescriptors(),
		dexDescriptors(),
		stakingDescriptors(),
		contractDescriptors(),
		blockDescriptors(),
		transactionDescriptors(),
		eventsDescriptors(),
		playerDescriptors(),
		assetDescriptors(),
		utilityDescriptors(),
		mintingDescriptors(),
		meritCircleDescriptors(),
		collectionDescriptors(),
	}
}

// Catalogue returns every registered descriptor. The map is built once and
// must not be modified by callers.
func Catalogue() map[OperationKey]Descriptor {
	catalogueOnce.Do(func() {
		catalogue = make(map[OperationKey]Descriptor)
		for _, table := range descriptorTables() {
			for _, d := range table {
				if _, dup := catalogue[d.Key]; dup {
					panic(fmt.Sprintf("duplicate descriptor for %s", d.Key))
				}
				catalogue[d.Key] = d
			}
		}
	})
	return catalogue
}

// Lookup resolves a host-supplied (resource, operation) pair.
func Lookup(resource, operation string) (Descriptor, error) {
	d, ok := Catalogue()[OperationKey{Resource: Resource(resource), Operation: Operation(operation)}]
	if !ok {
		return Descriptor{}, entity.NewUnsupportedOperationError(resource, operation)
	}
	return d, nil
}

// Keys lists all registered operation keys in stable order.
func Keys() []OperationKey {
	keys := make([]OperationKey, 0, len(Catalogue()))
	for k := range Catalogue() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Resource != keys[j].Resource {
			return keys[i].Resource < keys[j].Resource
		}
		return keys[i].Operation < keys[j].Operation
	})
	return keys
}
