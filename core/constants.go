package core

import "time"

// Protocol-wide constants (spec §6). All durations are expressed as seconds
// since every on-chain timestamp is a unix-second i64.
const (
	// MinEscrowAmount is the minimum amount of lamports an escrow may lock.
	MinEscrowAmount uint64 = 1_000_000 // 0.001 SOL

	// DefaultExpiry is used when a caller passes expiry_seconds == 0.
	DefaultExpiry = int64(30 * 24 * time.Hour / time.Second)
	MinExpiry     = int64(1 * time.Hour / time.Second)
	MaxExpiry     = int64(180 * 24 * time.Hour / time.Second)

	RefundTimelock     = int64(24 * time.Hour / time.Second)
	ReviewWindow       = int64(24 * time.Hour / time.Second)
	MinReviewBuffer    = int64(24 * time.Hour / time.Second)

	ArbitrationVotingWindow = int64(48 * time.Hour / time.Second)
	ArbitrationGracePeriod  = int64(48 * time.Hour / time.Second)

	ArbitratorsPerDispute = 5
	ArbitrationMajority   = 3

	MinArbitratorStake uint64 = 100_000_000 // 0.1 SOL
	MaxArbitrators            = 100

	// PlatformFeeBps is the platform fee in basis points (100 = 1%).
	PlatformFeeBps uint64 = 100

	// MaxReasonLen bounds the UTF-8 reason string stored in DisputeCase.
	MaxReasonLen = 500
)
