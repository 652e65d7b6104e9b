package tictactree

import (
	"time"

	"github.com/Quviq/kv-index-tictactree/idgen"
	"github.com/Quviq/kv-index-tictactree/jitter"
	"github.com/Quviq/kv-index-tictactree/merge"
	"github.com/Quviq/kv-index-tictactree/telemetry"
)

// Config models configuration for Start. Any zero-valued optional field
// falls back to the documented default,
// following the *BatcherConfig/*ChannelConfig convention used throughout
// this module's ambient stack.
//
// TreeCodec and ClockCodec are the two mandatory external collaborators:
// there is no sane default for an opaque hash tree or clock library, so
// Start panics if either is nil, and so also when the Config itself is nil.
type Config struct {
	// TreeCodec reaches the external hash-tree library. Required.
	TreeCodec merge.TreeCodec

	// ClockCodec reaches the external version-clock library. Required.
	ClockCodec merge.ClockCodec

	// TransitionPauseMS is the base inter-phase pause before jitter.
	// Defaults to 1000, if 0.
	TransitionPauseMS int

	// CacheTimeoutMS is the deadline for fetch_root/fetch_branches phases.
	// Defaults to 60_000, if 0.
	CacheTimeoutMS int

	// ScanTimeoutMS is the deadline for the fetch_clocks phase. Defaults to
	// 600_000, if 0.
	ScanTimeoutMS int

	// MaxBranchResults bounds the number of BranchIDs carried into
	// BranchCompare. Defaults to 16, if 0.
	MaxBranchResults int

	// MaxClockResults bounds the number of SegmentIDs carried into
	// ClockCompare. Defaults to 128, if 0.
	MaxClockResults int

	// Logger records EX001-EX004 and maintains exchange metrics. Defaults
	// to telemetry.Default(), if nil.
	Logger *telemetry.Logger

	// Rand supplies the jitter scheduler's randomness. Defaults to a
	// time-seeded jitter.NewSource, if nil.
	Rand jitter.Source

	// Clock abstracts wall-clock time, for deterministic tests of
	// phase-deadline arithmetic. Defaults to jitter.RealClock(), if nil.
	Clock jitter.Clock

	// IDSource allocates the exchange's opaque identifier. Defaults to
	// idgen.Random(), if nil.
	IDSource idgen.Source
}

// resolvedConfig is Config with every default substituted, computed once at
// Start.
type resolvedConfig struct {
	treeCodec         merge.TreeCodec
	clockCodec        merge.ClockCodec
	transitionPauseMS int
	cacheTimeout      time.Duration
	scanTimeout       time.Duration
	maxBranchResults  int
	maxClockResults   int
	logger            *telemetry.Logger
	rand              jitter.Source
	clock             jitter.Clock
	idSource          idgen.Source
}

func resolveConfig(cfg *Config) *resolvedConfig {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.TreeCodec == nil {
		panic("tictactree: nil TreeCodec")
	}
	if cfg.ClockCodec == nil {
		panic("tictactree: nil ClockCodec")
	}

	rc := &resolvedConfig{
		treeCodec:         cfg.TreeCodec,
		clockCodec:        cfg.ClockCodec,
		transitionPauseMS: cfg.TransitionPauseMS,
		maxBranchResults:  cfg.MaxBranchResults,
		maxClockResults:   cfg.MaxClockResults,
		logger:            cfg.Logger,
		rand:              cfg.Rand,
		clock:             cfg.Clock,
		idSource:          cfg.IDSource,
	}

	if rc.transitionPauseMS == 0 {
		rc.transitionPauseMS = 1000
	}

	cacheMS := cfg.CacheTimeoutMS
	if cacheMS == 0 {
		cacheMS = 60_000
	}
	rc.cacheTimeout = time.Duration(cacheMS) * time.Millisecond

	scanMS := cfg.ScanTimeoutMS
	if scanMS == 0 {
		scanMS = 600_000
	}
	rc.scanTimeout = time.Duration(scanMS) * time.Millisecond

	if rc.maxBranchResults == 0 {
		rc.maxBranchResults = 16
	}
	if rc.maxClockResults == 0 {
		rc.maxClockResults = 128
	}
	if rc.logger == nil {
		rc.logger = telemetry.Default()
	}
	if rc.rand == nil {
		rc.rand = jitter.NewSource(time.Now().UnixNano())
	}
	if rc.clock == nil {
		rc.clock = jitter.RealClock()
	}
	if rc.idSource == nil {
		rc.idSource = idgen.Random()
	}

	return rc
}
