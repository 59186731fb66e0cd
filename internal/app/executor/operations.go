package executor

// declaredOperations is the public surface per resource.
var declaredOperations = map[Resource][]Operation{ //nolint:gochecknoglobals
	ResourceWallet:      {OpGetBalance, OpGetTokenBalance, OpGetAllBalances, OpGetBalances, OpTransfer, OpTransferToken, OpGetNonce, OpGetAddress},
	ResourceNFT:         {OpGetOwner, OpGetMetadata, OpGetBalance, OpTransfer, OpApprove, OpSetApprovalForAll, OpIsApprovedForAll},
	ResourceMarketplace: {OpGetListings, OpGetListing, OpCreateListing, OpCancelListing, OpBuyListing, OpMakeOffer, OpGetOffers, OpAcceptOffer},
	ResourceGaming:      {OpCalculateLevel, OpCalculateElo, OpGetRank, OpCalculateRarity, OpAchievementProgress, OpGetLeaderboard, OpSubmitScore, OpGetPlayerStats},
	ResourceBridge:      {OpEstimateFee, OpBridgeTokens, OpGetSupportedChains, OpGetBridgeStatus},
	ResourceDEX:         {OpGetQuote, OpSwap, OpGetPair, OpGetTokenPrice},
	ResourceStaking:     {OpStake, OpUnstake, OpClaimRewards, OpGetStakeInfo},
	ResourceContract:    {OpRead, OpWrite, OpIsContract, OpEncodeFunction, OpEstimateGas},
	ResourceBlock:       {OpGetBlockNumber, OpGetBlock, OpGetLatestBlock, OpGetFeeData},
	ResourceTransaction: {OpGetTransaction, OpGetReceipt, OpWaitForConfirmation, OpEstimateGas},
	ResourceEvents:      {OpGetLogs, OpGetTransferEvents},
	ResourcePlayer:      {OpGetProfile, OpCreateProfile, OpGetWallets, OpGetTransactions},
	ResourceAsset:       {OpGetAssets, OpGetAsset, OpTransferAsset, OpGetAssetHistory},
	ResourceUtility: {
		OpConvertUnits, OpValidateAddress, OpFormatAddress, OpFormatDuration, OpHashMessage,
		OpResolveTokenURI, OpCalculateGasCost, OpGetNetworkInfo, OpGetContractAddress, OpGetTokenInfo,
	},
	ResourceMinting:     {OpMintNFT, OpMintBatch, OpGetMintStatus},
	ResourceMeritCircle: {OpGetStakingInfo, OpGetPendingRewards, OpConvertMcToBeam, OpGetTokenInfo},
	ResourceCollection:  {OpGetInfo, OpGetStats, OpGetOwners, OpGetFloorPrice},
}

// Resources lists every resource in declaration order.
func Resources() []Resource {
	return []Resource{
		ResourceWallet, ResourceNFT, ResourceMarketplace, ResourceGaming, ResourceBridge, ResourceDEX,
		ResourceStaking, ResourceContract, ResourceBlock, ResourceTransaction, ResourceEvents,
		ResourcePlayer, ResourceAsset, ResourceUtility, ResourceMinting, ResourceMeritCircle, ResourceCollection,
	}
}

// Operations returns the operations declared for a resource.
func Operations(r Resource) []Operation {
	ops := declaredOperations[r]
	out := make([]Operation, len(ops))
	copy(out, ops)
	return out
}
