package types

const (
	EventTypeCasinoInitialized = "CasinoInitialized"
	EventTypeBetPlaced         = "BetPlaced"
	EventTypeGameSettled       = "GameSettled"
	EventTypeParamsUpdated     = "ParamsUpdated"
	EventTypeOperatorAdded     = "OperatorAdded"
	EventTypeOperatorRemoved   = "OperatorRemoved"

	// Emitted instead of OperatorAdded/OperatorRemoved when the set is unchanged.
	EventTypeOperatorUnchanged = "OperatorUnchanged"
)
