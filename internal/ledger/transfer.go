package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// BlockhashProvider supplies the freshness anchor attached to every built
// transaction.
type BlockhashProvider interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// RPCBlockhashProvider backs BlockhashProvider with a Solana JSON-RPC node.
type RPCBlockhashProvider struct {
	client *rpc.Client
}

func NewRPCBlockhashProvider(endpoint string) *RPCBlockhashProvider {
	return &RPCBlockhashProvider{client: rpc.New(endpoint)}
}

func (p *RPCBlockhashProvider) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := p.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

// BuilderConfig fixes the memo tag and the priority fee applied to every
// payment transaction.
type BuilderConfig struct {
	MemoTag          string
	ComputeUnitPrice uint64 // micro-lamports
}

// TransferBuilder composes unsigned payment transactions. It never signs or
// submits; the requesting wallet does both.
type TransferBuilder struct {
	blockhash BlockhashProvider
	cfg       BuilderConfig
}

func NewTransferBuilder(blockhash BlockhashProvider, cfg BuilderConfig) *TransferBuilder {
	return &TransferBuilder{blockhash: blockhash, cfg: cfg}
}

// maxAmountSOL keeps the lamport conversion within uint64.
var maxAmountSOL = float64(math.MaxUint64) / float64(solana.LAMPORTS_PER_SOL)

// ParseAmount parses a decimal SOL amount. Anything that is not a finite
// positive value with a defined lamport conversion is rejected; ParseFloat
// alone admits NaN, Inf, and overflowing decimals.
func ParseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, errors.New("amount must be a positive decimal")
	}
	if amount > maxAmountSOL {
		return 0, errors.New("amount exceeds supported range")
	}
	return amount, nil
}

// Lamports converts a SOL amount to the chain's integer unit, rounding to
// nearest.
func Lamports(amountSOL float64) uint64 {
	return uint64(math.Round(amountSOL * float64(solana.LAMPORTS_PER_SOL)))
}

// Build assembles the transaction: compute-budget price directive, memo tag,
// then the transfer itself, with the payer as fee payer. RPC errors surface
// unretried.
func (b *TransferBuilder) Build(ctx context.Context, payer, recipient solana.PublicKey, amountSOL float64) (*solana.Transaction, error) {
	blockhash, err := b.blockhash.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	instructions := []solana.Instruction{
		computebudget.NewSetComputeUnitPriceInstruction(b.cfg.ComputeUnitPrice).Build(),
		solana.NewInstruction(solana.MemoProgramID, solana.AccountMetaSlice{}, []byte(b.cfg.MemoTag)),
		system.NewTransferInstruction(Lamports(amountSOL), payer, recipient).Build(),
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("compose transaction: %w", err)
	}

	// Wallets deserialize unsigned transactions with placeholder signatures.
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx, nil
}
