package casino_test

import (
	"bytes"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"onchaincasino/internal/casino"
	"onchaincasino/internal/client"
	"onchaincasino/internal/codec"
	"onchaincasino/internal/state"
	"onchaincasino/internal/types"
)

var program = types.ProgramID

func addr(b byte) types.Address {
	return types.Address(bytes.Repeat([]byte{b}, types.AddressLen))
}

func gameID(b byte) types.Hash {
	return types.Hash(bytes.Repeat([]byte{b}, 32))
}

type harness struct {
	t  *testing.T
	st *state.State
	p  *casino.Processor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		t:  t,
		st: state.NewState(state.Params{RentPerByte: 1}),
		p:  casino.NewProcessor(program, log.NewNopLogger()),
	}
}

func accountsOf(ix client.Instruction) []casino.Account {
	out := make([]casino.Account, 0, len(ix.Accounts))
	for _, m := range ix.Accounts {
		out = append(out, casino.Account{Address: m.Address, IsSigner: m.Signer, IsWritable: m.Writable})
	}
	return out
}

func (h *harness) fund(a types.Address, amount uint64) {
	h.t.Helper()
	require.NoError(h.t, h.st.Credit(a, amount))
}

func (h *harness) run(ix client.Instruction) (*casino.Result, error) {
	return h.p.Process(h.st, accountsOf(ix), ix.Data)
}

func (h *harness) runAccounts(ix client.Instruction, accs []casino.Account) (*casino.Result, error) {
	return h.p.Process(h.st, accs, ix.Data)
}

func (h *harness) mustRun(ix client.Instruction) *casino.Result {
	h.t.Helper()
	res, err := h.run(ix)
	require.NoError(h.t, err)
	return res
}

// mustReject runs ix and requires it to fail with want without touching state.
func (h *harness) mustReject(ix client.Instruction, want error) {
	h.t.Helper()
	h.mustRejectAccounts(ix, accountsOf(ix), want)
}

func (h *harness) mustRejectAccounts(ix client.Instruction, accs []casino.Account, want error) {
	h.t.Helper()
	before := h.st.AppHash()
	_, err := h.runAccounts(ix, accs)
	require.ErrorIs(h.t, err, want)
	require.Equal(h.t, before, h.st.AppHash(), "rejected instruction mutated state")
}

func (h *harness) config(authority types.Address) types.CasinoConfig {
	h.t.Helper()
	data, err := h.st.Record(types.CasinoAddress(program, authority))
	require.NoError(h.t, err)
	cfg, err := codec.DecodeCasinoConfig(data)
	require.NoError(h.t, err)
	return cfg
}

func (h *harness) game(id types.Hash) types.GameRecord {
	h.t.Helper()
	data, err := h.st.Record(types.GameAddress(program, id))
	require.NoError(h.t, err)
	g, err := codec.DecodeGameRecord(data)
	require.NoError(h.t, err)
	return g
}

const (
	testMinBet = uint64(100_000)
	testMaxBet = uint64(1_000_000_000)
)

// setupCasino initializes a casino owned by authority with edge bps and the
// standard bet range.
func setupCasino(t *testing.T, bps uint16) (*harness, types.Address) {
	t.Helper()
	h := newHarness(t)
	authority := addr(0xa0)
	h.fund(authority, 10_000_000)
	h.mustRun(client.Initialize(program, authority, bps, testMinBet, testMaxBet))
	return h, authority
}

// ---- Initialize ----

func TestInitialize_AllValidHouseEdges(t *testing.T) {
	h := newHarness(t)
	for bps := 0; bps <= types.MaxHouseEdgeBps; bps++ {
		authority := types.DeriveAddress(program, []byte("authority"), []byte{byte(bps), byte(bps >> 8)})
		h.fund(authority, 1_000)
		h.mustRun(client.Initialize(program, authority, uint16(bps), 1, 10))
		require.Equal(t, uint16(bps), h.config(authority).HouseEdgeBps)
	}
}

func TestInitialize_RejectsHouseEdgeAboveCap(t *testing.T) {
	h := newHarness(t)
	authority := addr(1)
	h.fund(authority, 1_000)
	for _, bps := range []uint16{1001, 2500, 10000, 65535} {
		h.mustReject(client.Initialize(program, authority, bps, 1, 10), types.ErrInvalidHouseEdge)
	}
}

func TestInitialize_RejectsInvertedBounds(t *testing.T) {
	h := newHarness(t)
	authority := addr(1)
	h.fund(authority, 1_000)
	h.mustReject(client.Initialize(program, authority, 250, 11, 10), types.ErrInvalidBetAmount)
	h.mustRun(client.Initialize(program, authority, 250, 10, 10))
}

func TestInitialize_CreatesConfigWithAuthorityOperator(t *testing.T) {
	h, authority := setupCasino(t, 250)

	cfg := h.config(authority)
	require.Equal(t, authority, cfg.Authority)
	require.Equal(t, uint16(250), cfg.HouseEdgeBps)
	require.Equal(t, testMinBet, cfg.MinBet)
	require.Equal(t, testMaxBet, cfg.MaxBet)
	require.Equal(t, []types.Address{authority}, cfg.Operators.Members())

	configAddr := types.CasinoAddress(program, authority)
	rent := h.st.MinimumBalance(codec.CasinoRecordSize(1))
	require.Equal(t, rent, h.st.Balance(configAddr))
	require.Equal(t, 10_000_000-rent, h.st.Balance(authority))
}

func TestInitialize_Twice(t *testing.T) {
	h, authority := setupCasino(t, 250)
	h.mustReject(client.Initialize(program, authority, 250, testMinBet, testMaxBet), types.ErrGameAlreadyExists)
	h.mustReject(client.Initialize(program, authority, 100, 1, 2), types.ErrGameAlreadyExists)
}

func TestInitialize_AuthorizationAndAccounts(t *testing.T) {
	h := newHarness(t)
	authority := addr(1)
	h.fund(authority, 1_000)
	ix := client.Initialize(program, authority, 250, 1, 10)

	unsigned := accountsOf(ix)
	unsigned[0].IsSigner = false
	h.mustRejectAccounts(ix, unsigned, types.ErrUnauthorized)

	wrongConfig := accountsOf(ix)
	wrongConfig[1].Address = types.CasinoAddress(program, addr(2))
	h.mustRejectAccounts(ix, wrongConfig, types.ErrAddressMismatch)

	wrongAllocator := accountsOf(ix)
	wrongAllocator[2].Address = addr(3)
	h.mustRejectAccounts(ix, wrongAllocator, types.ErrInvalidInstruction)

	readonlyConfig := accountsOf(ix)
	readonlyConfig[1].IsWritable = false
	h.mustRejectAccounts(ix, readonlyConfig, types.ErrInvalidInstruction)

	h.mustRejectAccounts(ix, accountsOf(ix)[:2], types.ErrInvalidInstruction)
}

func TestInitialize_AuthorityCannotFundRecord(t *testing.T) {
	h := newHarness(t)
	authority := addr(1)
	h.fund(authority, h.st.MinimumBalance(codec.CasinoRecordSize(1))-1)
	h.mustReject(client.Initialize(program, authority, 250, 1, 10), types.ErrInsufficientFunds)
}

func TestExecute_WithoutHost(t *testing.T) {
	p := casino.NewProcessor(program, log.NewNopLogger())
	ix, err := codec.DecodeInstruction(client.AddOperator(program, addr(0xa0), addr(5)).Data)
	require.NoError(t, err)

	_, err = p.Execute(nil, nil, ix)
	require.ErrorIs(t, err, types.ErrInvalidInstruction)
}

func TestProcess_UndecodableData(t *testing.T) {
	h, authority := setupCasino(t, 250)
	ix := client.AddOperator(program, authority, addr(5))
	ix.Data = []byte{0xee}
	h.mustReject(ix, types.ErrInvalidInstruction)
}

// ---- PlaceBet ----

func TestPlaceBet_OutOfRange(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000_000)

	for i, amount := range []uint64{0, 1, testMinBet - 1, testMaxBet + 1} {
		h.mustReject(client.PlaceBet(program, player, authority, gameID(byte(i+1)), amount), types.ErrInvalidBetAmount)
	}
}

func TestPlaceBet_InRangeCreatesOpenRecordAndEscrows(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000_000)

	for i, amount := range []uint64{testMinBet, 500_000, testMaxBet} {
		id := gameID(byte(i + 1))
		before := h.st.Balance(player)

		res := h.mustRun(client.PlaceBet(program, player, authority, id, amount))
		require.Equal(t, types.EventTypeBetPlaced, res.Event)
		require.Equal(t, amount, res.Escrowed)

		g := h.game(id)
		require.Equal(t, id, g.GameID)
		require.Equal(t, player, g.Player)
		require.Equal(t, amount, g.BetAmount)
		require.False(t, g.IsSettled)
		require.False(t, g.IsWin)
		require.Zero(t, g.WinAmount)

		rent := h.st.MinimumBalance(codec.GameRecordSize)
		require.Equal(t, before-amount-rent, h.st.Balance(player))
		require.Equal(t, amount+rent, h.st.Balance(types.GameAddress(program, id)))
	}
}

func TestPlaceBet_ZeroRejectedEvenWithZeroMinimum(t *testing.T) {
	h := newHarness(t)
	authority, player := addr(1), addr(2)
	h.fund(authority, 1_000)
	h.fund(player, 1_000)
	h.mustRun(client.Initialize(program, authority, 0, 0, 100))

	h.mustReject(client.PlaceBet(program, player, authority, gameID(1), 0), types.ErrInvalidBetAmount)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 1))
}

func TestPlaceBet_SameGameIDFails(t *testing.T) {
	h, authority := setupCasino(t, 250)
	alice, bob := addr(0xb1), addr(0xb2)
	h.fund(alice, 10_000_000)
	h.fund(bob, 10_000_000)

	h.mustRun(client.PlaceBet(program, alice, authority, gameID(7), 500_000))
	h.mustReject(client.PlaceBet(program, alice, authority, gameID(7), 500_000), types.ErrGameAlreadyExists)
	h.mustReject(client.PlaceBet(program, bob, authority, gameID(7), 600_000), types.ErrGameAlreadyExists)
}

func TestPlaceBet_InsufficientFunds(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	rent := h.st.MinimumBalance(codec.GameRecordSize)

	h.fund(player, 500_000)
	h.mustReject(client.PlaceBet(program, player, authority, gameID(1), 500_000), types.ErrInsufficientFunds)

	h.fund(player, rent)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 500_000))
	require.Zero(t, h.st.Balance(player))
}

func TestPlaceBet_AuthorizationAndAddresses(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000)
	ix := client.PlaceBet(program, player, authority, gameID(1), 500_000)

	unsigned := accountsOf(ix)
	unsigned[0].IsSigner = false
	h.mustRejectAccounts(ix, unsigned, types.ErrUnauthorized)

	wrongGame := accountsOf(ix)
	wrongGame[2].Address = types.GameAddress(program, gameID(2))
	h.mustRejectAccounts(ix, wrongGame, types.ErrAddressMismatch)

	missingConfig := accountsOf(ix)
	missingConfig[1].Address = types.CasinoAddress(program, addr(0xcc))
	h.mustRejectAccounts(ix, missingConfig, types.ErrGameNotFound)

	h.mustRun(ix)

	// A game record passed where the config belongs is not a config.
	other := client.PlaceBet(program, player, authority, gameID(3), 500_000)
	fakeConfig := accountsOf(other)
	fakeConfig[1].Address = types.GameAddress(program, gameID(1))
	h.mustRejectAccounts(other, fakeConfig, types.ErrInvalidInstruction)
}

// ---- SettleGame ----

func TestSettleGame_PayoutBoundExample(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000)
	id := gameID(1)
	game := types.GameAddress(program, id)
	h.mustRun(client.PlaceBet(program, player, authority, id, 500_000))

	// The house bankrolls the part of the payout above the stake.
	h.fund(game, 12_820)

	h.mustReject(client.SettleGame(program, authority, authority, id, player, true, 512_821, gameID(9)), types.ErrExpectedAmountMismatch)

	before := h.st.Balance(player)
	res := h.mustRun(client.SettleGame(program, authority, authority, id, player, true, 512_820, gameID(9)))
	require.Equal(t, types.EventTypeGameSettled, res.Event)
	require.Equal(t, uint64(512_820), res.PaidOut)
	require.Equal(t, before+512_820, h.st.Balance(player))
	require.Equal(t, h.st.MinimumBalance(codec.GameRecordSize), h.st.Balance(game))

	g := h.game(id)
	require.True(t, g.IsSettled)
	require.True(t, g.IsWin)
	require.Equal(t, uint64(512_820), g.WinAmount)
	require.Equal(t, gameID(9), g.ResultHash)
	require.Equal(t, uint64(500_000), g.BetAmount)
}

func TestSettleGame_ZeroEdgePaysStake(t *testing.T) {
	h, authority := setupCasino(t, 0)
	player := addr(0xb0)
	h.fund(player, 10_000_000)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 500_000))

	h.mustReject(client.SettleGame(program, authority, authority, gameID(1), player, true, 500_001, gameID(2)), types.ErrExpectedAmountMismatch)
	h.mustRun(client.SettleGame(program, authority, authority, gameID(1), player, true, 500_000, gameID(2)))
}

func TestSettleGame_EscrowMustCoverPayout(t *testing.T) {
	h, authority := setupCasino(t, 1000)
	player := addr(0xb0)
	h.fund(player, 10_000_000)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 900_000))

	// Within the 1_000_000 bound but above the 900_000 escrowed.
	h.mustReject(client.SettleGame(program, authority, authority, gameID(1), player, true, 900_001, gameID(2)), types.ErrInsufficientFunds)
	h.mustRun(client.SettleGame(program, authority, authority, gameID(1), player, true, 900_000, gameID(2)))
}

func TestSettleGame_LossKeepsStakeInEscrow(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000)
	id := gameID(1)
	game := types.GameAddress(program, id)
	h.mustRun(client.PlaceBet(program, player, authority, id, 500_000))

	playerBefore, gameBefore := h.st.Balance(player), h.st.Balance(game)
	res := h.mustRun(client.SettleGame(program, authority, authority, id, player, false, 0, gameID(2)))
	require.Zero(t, res.PaidOut)
	require.Equal(t, playerBefore, h.st.Balance(player))
	require.Equal(t, gameBefore, h.st.Balance(game))

	g := h.game(id)
	require.True(t, g.IsSettled)
	require.False(t, g.IsWin)
	require.Zero(t, g.WinAmount)
	require.Equal(t, gameID(2), g.ResultHash)
}

func TestSettleGame_LossRecordsWinAmountWithoutMovingValue(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000)
	id := gameID(1)
	game := types.GameAddress(program, id)
	h.mustRun(client.PlaceBet(program, player, authority, id, 500_000))

	playerBefore, gameBefore := h.st.Balance(player), h.st.Balance(game)
	// A loss is not checked against the payout bound.
	res := h.mustRun(client.SettleGame(program, authority, authority, id, player, false, 42, gameID(2)))
	require.Zero(t, res.PaidOut)
	require.Equal(t, playerBefore, h.st.Balance(player))
	require.Equal(t, gameBefore, h.st.Balance(game))

	g := h.game(id)
	require.True(t, g.IsSettled)
	require.False(t, g.IsWin)
	require.Equal(t, uint64(42), g.WinAmount)
	require.Equal(t, gameID(2), g.ResultHash)

	h.mustReject(client.SettleGame(program, authority, authority, id, player, true, 42, gameID(3)), types.ErrGameAlreadySettled)
}

func TestSettleGame_AlreadySettledAlwaysFails(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player, op := addr(0xb0), addr(0xc0)
	h.fund(player, 10_000_000)
	h.mustRun(client.AddOperator(program, authority, op))
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 500_000))
	h.mustRun(client.SettleGame(program, authority, authority, gameID(1), player, false, 0, gameID(2)))

	attempts := []client.Instruction{
		client.SettleGame(program, authority, authority, gameID(1), player, false, 0, gameID(2)),
		client.SettleGame(program, authority, authority, gameID(1), player, true, 1, gameID(3)),
		client.SettleGame(program, op, authority, gameID(1), player, true, 0, gameID(4)),
		client.SettleGame(program, op, authority, gameID(1), player, true, 999_999_999, gameID(5)),
	}
	for _, ix := range attempts {
		h.mustReject(ix, types.ErrGameAlreadySettled)
	}
}

func TestSettleGame_WrongPlayer(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player, other := addr(0xb0), addr(0xb1)
	h.fund(player, 10_000_000)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 500_000))

	h.mustReject(client.SettleGame(program, authority, authority, gameID(1), other, true, 100_000, gameID(2)), types.ErrAddressMismatch)
	h.mustReject(client.SettleGame(program, authority, authority, gameID(1), other, false, 0, gameID(2)), types.ErrAddressMismatch)
}

func TestSettleGame_RequiresOperatorSignature(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player, op, stranger := addr(0xb0), addr(0xc0), addr(0xd0)
	h.fund(player, 10_000_000)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), 500_000))
	h.mustRun(client.PlaceBet(program, player, authority, gameID(2), 500_000))

	h.mustReject(client.SettleGame(program, stranger, authority, gameID(1), player, false, 0, gameID(9)), types.ErrUnauthorized)
	// The player cannot settle their own wager.
	h.mustReject(client.SettleGame(program, player, authority, gameID(1), player, true, 500_000, gameID(9)), types.ErrUnauthorized)

	ix := client.SettleGame(program, authority, authority, gameID(1), player, false, 0, gameID(9))
	unsigned := accountsOf(ix)
	unsigned[0].IsSigner = false
	h.mustRejectAccounts(ix, unsigned, types.ErrUnauthorized)

	h.mustReject(client.SettleGame(program, op, authority, gameID(1), player, false, 0, gameID(9)), types.ErrUnauthorized)
	h.mustRun(client.AddOperator(program, authority, op))
	h.mustRun(client.SettleGame(program, op, authority, gameID(1), player, false, 0, gameID(9)))

	h.mustRun(client.RemoveOperator(program, authority, op))
	h.mustReject(client.SettleGame(program, op, authority, gameID(2), player, false, 0, gameID(9)), types.ErrUnauthorized)
}

func TestSettleGame_NonexistentGame(t *testing.T) {
	h, authority := setupCasino(t, 250)
	h.mustReject(client.SettleGame(program, authority, authority, gameID(1), addr(0xb0), false, 0, gameID(2)), types.ErrGameNotFound)
}

func TestSettleGame_ConfigRecordAsGame(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	ix := client.SettleGame(program, authority, authority, gameID(1), player, false, 0, gameID(2))
	accs := accountsOf(ix)
	accs[2].Address = types.CasinoAddress(program, authority)
	h.mustRejectAccounts(ix, accs, types.ErrInvalidInstruction)
}

// ---- UpdateParams ----

func u16p(v uint16) *uint16 { return &v }
func u64p(v uint64) *uint64 { return &v }

func TestUpdateParams_AllAbsentIsNoop(t *testing.T) {
	h, authority := setupCasino(t, 250)
	configAddr := types.CasinoAddress(program, authority)
	before, err := h.st.Record(configAddr)
	require.NoError(t, err)

	h.mustRun(client.UpdateParams(program, authority, nil, nil, nil))

	after, err := h.st.Record(configAddr)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestUpdateParams_AppliesPresentFields(t *testing.T) {
	h, authority := setupCasino(t, 250)

	h.mustRun(client.UpdateParams(program, authority, u16p(1000), nil, nil))
	cfg := h.config(authority)
	require.Equal(t, uint16(1000), cfg.HouseEdgeBps)
	require.Equal(t, testMinBet, cfg.MinBet)
	require.Equal(t, testMaxBet, cfg.MaxBet)

	h.mustRun(client.UpdateParams(program, authority, nil, u64p(5), u64p(50)))
	cfg = h.config(authority)
	require.Equal(t, uint16(1000), cfg.HouseEdgeBps)
	require.Equal(t, uint64(5), cfg.MinBet)
	require.Equal(t, uint64(50), cfg.MaxBet)
	require.Equal(t, []types.Address{authority}, cfg.Operators.Members())
}

func TestUpdateParams_ValidatesResultingBounds(t *testing.T) {
	h, authority := setupCasino(t, 250)

	h.mustReject(client.UpdateParams(program, authority, nil, u64p(testMaxBet+1), nil), types.ErrInvalidBetAmount)
	h.mustReject(client.UpdateParams(program, authority, nil, nil, u64p(testMinBet-1)), types.ErrInvalidBetAmount)
	h.mustReject(client.UpdateParams(program, authority, nil, u64p(10), u64p(9)), types.ErrInvalidBetAmount)
	h.mustReject(client.UpdateParams(program, authority, u16p(1001), nil, nil), types.ErrInvalidHouseEdge)
	// A valid edge does not rescue an invalid pair.
	h.mustReject(client.UpdateParams(program, authority, u16p(100), u64p(10), u64p(9)), types.ErrInvalidBetAmount)

	// Moving the whole range above the old max in one call is fine.
	h.mustRun(client.UpdateParams(program, authority, nil, u64p(2*testMaxBet), u64p(3*testMaxBet)))
	cfg := h.config(authority)
	require.Equal(t, 2*testMaxBet, cfg.MinBet)
	require.Equal(t, 3*testMaxBet, cfg.MaxBet)
}

func TestUpdateParams_RequiresAuthority(t *testing.T) {
	h, authority := setupCasino(t, 250)
	op := addr(0xc0)
	h.mustRun(client.AddOperator(program, authority, op))

	// Operators settle; they do not configure.
	ix := client.UpdateParams(program, op, u16p(0), nil, nil)
	accs := accountsOf(ix)
	accs[1].Address = types.CasinoAddress(program, authority)
	h.mustRejectAccounts(ix, accs, types.ErrUnauthorized)

	unsigned := accountsOf(client.UpdateParams(program, authority, u16p(0), nil, nil))
	unsigned[0].IsSigner = false
	h.mustRejectAccounts(client.UpdateParams(program, authority, u16p(0), nil, nil), unsigned, types.ErrUnauthorized)
}

func TestUpdateParams_BoundsApplyToLaterBets(t *testing.T) {
	h, authority := setupCasino(t, 250)
	player := addr(0xb0)
	h.fund(player, 10_000_000_000)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(1), testMinBet))

	h.mustRun(client.UpdateParams(program, authority, nil, u64p(200_000), nil))
	h.mustReject(client.PlaceBet(program, player, authority, gameID(2), testMinBet), types.ErrInvalidBetAmount)
	h.mustRun(client.PlaceBet(program, player, authority, gameID(2), 200_000))

	// Settlement uses the edge in force at settlement time.
	h.mustRun(client.UpdateParams(program, authority, u16p(0), nil, nil))
	h.mustReject(client.SettleGame(program, authority, authority, gameID(1), player, true, testMinBet+1, gameID(3)), types.ErrExpectedAmountMismatch)
}

// ---- Operators ----

func TestAddOperator_Idempotent(t *testing.T) {
	h, authority := setupCasino(t, 250)
	op := addr(0xc0)

	res := h.mustRun(client.AddOperator(program, authority, op))
	require.Equal(t, types.EventTypeOperatorAdded, res.Event)
	require.Equal(t, 2, h.config(authority).Operators.Len())

	before := h.st.AppHash()
	res = h.mustRun(client.AddOperator(program, authority, op))
	require.Equal(t, types.EventTypeOperatorUnchanged, res.Event)
	require.Equal(t, 2, h.config(authority).Operators.Len())
	require.Equal(t, before, h.st.AppHash())

	// The authority is already a member.
	h.mustRun(client.AddOperator(program, authority, authority))
	require.Equal(t, 2, h.config(authority).Operators.Len())
}

func TestAddOperator_AuthorityFundsRecordGrowth(t *testing.T) {
	h := newHarness(t)
	authority := addr(1)
	h.fund(authority, h.st.MinimumBalance(codec.CasinoRecordSize(1)))
	h.mustRun(client.Initialize(program, authority, 250, 1, 10))
	require.Zero(t, h.st.Balance(authority))

	h.mustReject(client.AddOperator(program, authority, addr(2)), types.ErrInsufficientFunds)

	growth := h.st.MinimumBalance(codec.CasinoRecordSize(2)) - h.st.MinimumBalance(codec.CasinoRecordSize(1))
	h.fund(authority, growth)
	h.mustRun(client.AddOperator(program, authority, addr(2)))
	require.Zero(t, h.st.Balance(authority))
	require.Equal(t, h.st.MinimumBalance(codec.CasinoRecordSize(2)), h.st.Balance(types.CasinoAddress(program, authority)))
}

func TestRemoveOperator(t *testing.T) {
	h, authority := setupCasino(t, 250)
	a, b := addr(0xc1), addr(0xc2)
	h.mustRun(client.AddOperator(program, authority, a))
	h.mustRun(client.AddOperator(program, authority, b))

	h.mustReject(client.RemoveOperator(program, authority, authority), types.ErrUnauthorized)

	before := h.st.AppHash()
	res := h.mustRun(client.RemoveOperator(program, authority, addr(0xee)))
	require.Equal(t, types.EventTypeOperatorUnchanged, res.Event)
	require.Equal(t, before, h.st.AppHash())

	res = h.mustRun(client.RemoveOperator(program, authority, a))
	require.Equal(t, types.EventTypeOperatorRemoved, res.Event)
	cfg := h.config(authority)
	require.Equal(t, []types.Address{authority, b}, cfg.Operators.Members())
	require.True(t, cfg.Operators.Contains(authority))
}

func TestOperatorManagement_RequiresAuthority(t *testing.T) {
	h, authority := setupCasino(t, 250)
	op := addr(0xc0)
	h.fund(op, 1_000_000)
	h.mustRun(client.AddOperator(program, authority, op))

	for _, build := range []func(program, authority, operator types.Address) client.Instruction{client.AddOperator, client.RemoveOperator} {
		// An operator signing against the authority's config.
		ix := build(program, op, addr(0xc9))
		accs := accountsOf(ix)
		accs[1].Address = types.CasinoAddress(program, authority)
		h.mustRejectAccounts(ix, accs, types.ErrUnauthorized)

		ix = build(program, authority, addr(0xc9))
		unsigned := accountsOf(ix)
		unsigned[0].IsSigner = false
		h.mustRejectAccounts(ix, unsigned, types.ErrUnauthorized)
	}
}
