package domain

const (
	// APTOS_ZERO_ADDRESS is the standardized zero account address
	APTOS_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000000000000000000000000000"

	// TxIndexMultiplier packs (txn_version, event_index) into a single monotonic index
	TxIndexMultiplier = 100000

	// Token v1 (0x3) event types
	TokenV1CreateCollectionEvent = "0x3::token::CreateCollectionEvent"
	TokenV1CreateTokenDataEvent  = "0x3::token::CreateTokenDataEvent"
	TokenV1MintTokenEvent        = "0x3::token::MintTokenEvent"
	TokenV1BurnTokenEvent        = "0x3::token::BurnTokenEvent"
	TokenV1DepositEvent          = "0x3::token::DepositEvent"
	TokenV1WithdrawEvent         = "0x3::token::WithdrawEvent"
	TokenV1CreateCollection      = "0x3::token::CreateCollection"
	TokenV1CreateTokenData       = "0x3::token::CreateTokenData"
	TokenV1Mint                  = "0x3::token::Mint"
	TokenV1Burn                  = "0x3::token::Burn"
	TokenV1Deposit               = "0x3::token::TokenDeposit"
	TokenV1Withdraw              = "0x3::token::TokenWithdraw"

	// Token v2 (0x4 / 0x1 object) event types
	TokenV2MintEvent    = "0x4::collection::MintEvent"
	TokenV2Mint         = "0x4::collection::Mint"
	TokenV2BurnEvent    = "0x4::collection::BurnEvent"
	TokenV2Burn         = "0x4::collection::Burn"
	ObjectTransferEvent = "0x1::object::TransferEvent"
	ObjectTransfer      = "0x1::object::Transfer"

	// Resource types
	ResourceCollection       = "0x4::collection::Collection"
	ResourceConcurrentSupply = "0x4::collection::ConcurrentSupply"
	ResourceFixedSupply      = "0x4::collection::FixedSupply"
	ResourceUnlimitedSupply  = "0x4::collection::UnlimitedSupply"
	ResourceToken            = "0x4::token::Token"
	ResourceTokenIdentifiers = "0x4::token::TokenIdentifiers"
	ResourceRoyalty          = "0x4::royalty::Royalty"
	ResourceObjectCore       = "0x1::object::ObjectCore"

	WriteSetChangeWrite  = "write_resource"
	WriteSetChangeDelete = "delete_resource"
)
