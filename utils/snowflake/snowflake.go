package snowflake

import (
	"errors"
	"sync"
	"time"
)

const (
	// Epoch is the custom epoch (January 1, 2020 00:00:00 UTC+1)
	Epoch int64 = 1577833200000 // milliseconds

	// Bit layout of the legacy (v2) identifiers. The sequence slot is
	// 12 bits wide but the counter only cycles through 1024 values;
	// the top two bits of the slot are never employed.
	TimestampShift uint8 = 22
	MachineShift   uint8 = 17
	ProcessShift   uint8 = 12

	MachineMask  int64 = 0x1f
	ProcessMask  int64 = 0x1f
	SequenceMask int64 = 0xfff

	sequencePeriod int64 = 1024
)

var (
	ErrInvalidMachineID    = errors.New("machine ID exceeds maximum value")
	ErrInvalidProcessID    = errors.New("process ID exceeds maximum value")
	ErrClockMovedBackwards = errors.New("clock moved backwards")
)

// Generator generates unique identifiers using the legacy freak
// Snowflake layout: 41-bit millisecond timestamp, 5-bit machine ID,
// 5-bit process ID and a per-process sequence counter.
type Generator struct {
	mu sync.Mutex

	// Configuration
	epoch     int64
	machineID int64
	processID int64

	// State
	sequence      int64
	lastTimestamp int64

	now func() time.Time
}

// Config holds the configuration for the identifier generator
type Config struct {
	Epoch     int64
	MachineID int64
	ProcessID int64

	// Now overrides the wall clock, used by tests
	Now func() time.Time
}

// NewGenerator creates a new identifier generator with the given configuration
func NewGenerator(config Config) (*Generator, error) {
	if config.Epoch == 0 {
		config.Epoch = Epoch
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	if config.MachineID > MachineMask || config.MachineID < 0 {
		return nil, ErrInvalidMachineID
	}
	if config.ProcessID > ProcessMask || config.ProcessID < 0 {
		return nil, ErrInvalidProcessID
	}

	return &Generator{
		epoch:     config.Epoch,
		machineID: config.MachineID,
		processID: config.ProcessID,
		now:       config.Now,
	}, nil
}

// NextID generates the next unique identifier
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.currentTimestamp()

	if timestamp < g.lastTimestamp {
		return 0, ErrClockMovedBackwards
	}

	if timestamp == g.lastTimestamp {
		g.sequence = (g.sequence + 1) % sequencePeriod
		// Counter exhausted within this millisecond - wait for the next one
		if g.sequence == 0 {
			timestamp = g.waitNextMillis(g.lastTimestamp)
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = timestamp

	id := ((timestamp - g.epoch) << TimestampShift) |
		(g.machineID << MachineShift) |
		(g.processID << ProcessShift) |
		g.sequence

	return id, nil
}

// currentTimestamp returns the current timestamp in milliseconds
func (g *Generator) currentTimestamp() int64 {
	return g.now().UnixNano() / int64(time.Millisecond)
}

// waitNextMillis waits until the next millisecond
func (g *Generator) waitNextMillis(lastTimestamp int64) int64 {
	timestamp := g.currentTimestamp()
	for timestamp <= lastTimestamp {
		timestamp = g.currentTimestamp()
	}
	return timestamp
}

// Parse extracts the components from an identifier
func (g *Generator) Parse(id int64) (timestamp int64, machineID int64, processID int64, sequence int64) {
	sequence = id & SequenceMask
	processID = (id >> ProcessShift) & ProcessMask
	machineID = (id >> MachineShift) & MachineMask
	timestamp = (id >> TimestampShift) + g.epoch
	return
}

// Timestamp extracts just the creation time from an identifier
func (g *Generator) Timestamp(id int64) time.Time {
	return time.UnixMilli((id >> TimestampShift) + g.epoch)
}
