package coral

// Wire method names. Core reads live under the coral_ namespace,
// extended/indexer reads and push subscriptions under coralx_. Every
// transport accepts these names; the GraphQL transport translates
// them to query documents internally.
const (
	MethodGetChainIdentifier          = "coral_getChainIdentifier"
	MethodGetObject                   = "coral_getObject"
	MethodMultiGetObjects             = "coral_multiGetObjects"
	MethodGetCheckpoint               = "coral_getCheckpoint"
	MethodGetCheckpoints              = "coral_getCheckpoints"
	MethodGetLatestCheckpointSequence = "coral_getLatestCheckpointSequenceNumber"
	MethodGetTransactionBlock         = "coral_getTransactionBlock"
	MethodMultiGetTransactionBlocks   = "coral_multiGetTransactionBlocks"
	MethodGetTotalTransactionBlocks   = "coral_getTotalTransactionBlocks"
	MethodExecuteTransactionBlock     = "coral_executeTransactionBlock"
	MethodDevInspectTransactionBlock  = "coral_devInspectTransactionBlock"
	MethodDryRunTransactionBlock      = "coral_dryRunTransactionBlock"
	MethodGetProtocolConfig           = "coral_getProtocolConfig"

	MethodGetOwnedObjects        = "coralx_getOwnedObjects"
	MethodGetCoins               = "coralx_getCoins"
	MethodGetAllCoins            = "coralx_getAllCoins"
	MethodGetBalance             = "coralx_getBalance"
	MethodGetAllBalances         = "coralx_getAllBalances"
	MethodGetCoinMetadata        = "coralx_getCoinMetadata"
	MethodGetTotalSupply         = "coralx_getTotalSupply"
	MethodQueryTransactionBlocks = "coralx_queryTransactionBlocks"
	MethodQueryEvents            = "coralx_queryEvents"
	MethodGetDynamicFields       = "coralx_getDynamicFields"
	MethodGetDynamicFieldObject  = "coralx_getDynamicFieldObject"
	MethodGetReferenceGasPrice   = "coralx_getReferenceGasPrice"
	MethodGetSystemStateV1       = "coralx_getLatestSystemState"
	MethodGetSystemStateV2       = "coralx_getLatestSystemStateV2"

	MethodSubscribeEvent         = "coralx_subscribeEvent"
	MethodUnsubscribeEvent       = "coralx_unsubscribeEvent"
	MethodSubscribeTransaction   = "coralx_subscribeTransaction"
	MethodUnsubscribeTransaction = "coralx_unsubscribeTransaction"
)
