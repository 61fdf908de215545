package ads101x

// Register is a register pointer.
type Register uint8

const (
	Conversion    Register = 0b00
	Config        Register = 0b01
	LowThreshold  Register = 0b10
	HighThreshold Register = 0b11
)

// Bits of the config register.
const (
	ConfigOS       uint16 = 1 << 15
	ConfigMux      uint16 = 0b111 << 12
	ConfigPGA      uint16 = 0b111 << 9
	ConfigMode     uint16 = 1 << 8
	ConfigDataRate uint16 = 0b111 << 5
	ConfigCompMode uint16 = 1 << 4
	ConfigCompPol  uint16 = 1 << 3
	ConfigCompLat  uint16 = 1 << 2
	ConfigCompQue  uint16 = 0b11
)

// FullScaleRange is the range of the programmable gain amplifier.
type FullScaleRange uint16

const (
	V6_144 FullScaleRange = 0b000 << 9
	V4_096 FullScaleRange = 0b001 << 9
	V2_048 FullScaleRange = 0b010 << 9
	V1_024 FullScaleRange = 0b011 << 9
	V0_512 FullScaleRange = 0b100 << 9
	V0_256 FullScaleRange = 0b101 << 9
)

// LSB returns the voltage of one step of a conversion result.
func (r FullScaleRange) LSB() float32 {
	switch r {
	case V6_144:
		return 0.003
	case V4_096:
		return 0.002
	case V2_048:
		return 0.001
	case V1_024:
		return 0.0005
	case V0_512:
		return 0.00025
	default:
		return 0.000125
	}
}

// InputMultiplexer selects the input of a conversion.
type InputMultiplexer uint16

const (
	Input0 InputMultiplexer = iota << 12 // AIN0 - AIN1
	Input1                               // AIN0 - AIN3
	Input2                               // AIN1 - AIN3
	Input3                               // AIN2 - AIN3
	Input4                               // AIN0
	Input5                               // AIN1
	Input6                               // AIN2
	Input7                               // AIN3
)

// DataRate is the conversion rate.
type DataRate uint16

const (
	Sps128 DataRate = iota << 5
	Sps250
	Sps490
	Sps920
	Sps1600
	Sps2400
	Sps3300
)

// SamplesPerSecond returns the rate in samples per second.
func (r DataRate) SamplesPerSecond() int {
	switch r {
	case Sps128:
		return 128
	case Sps250:
		return 250
	case Sps490:
		return 490
	case Sps920:
		return 920
	case Sps1600:
		return 1600
	case Sps2400:
		return 2400
	default:
		return 3300
	}
}

// ComparatorMode, ComparatorPolarity, ComparatorLatch and ComparatorQueue
// configure the ALERT/RDY pin.
type (
	ComparatorMode     uint16
	ComparatorPolarity uint16
	ComparatorLatch    uint16
	ComparatorQueue    uint16
)

const (
	Traditional ComparatorMode = 0
	Window      ComparatorMode = ComparatorMode(ConfigCompMode)

	ActiveLow  ComparatorPolarity = 0
	ActiveHigh ComparatorPolarity = ComparatorPolarity(ConfigCompPol)

	Nonlatching ComparatorLatch = 0
	Latching    ComparatorLatch = ComparatorLatch(ConfigCompLat)

	OneConversion   ComparatorQueue = 0b00
	TwoConversions  ComparatorQueue = 0b01
	FourConversions ComparatorQueue = 0b10
	DisableQueue    ComparatorQueue = 0b11
)

// DefaultConfig is the config written by Initialize: single shot on input 0,
// ±2.048V, 1600 samples per second, comparator disabled.
const DefaultConfig = uint16(Input0) | uint16(V2_048) | ConfigMode | uint16(Sps1600) | uint16(DisableQueue)

// Data holds a conversion result.
type Data struct {
	raw   [2]byte
	scale FullScaleRange
}

// Value returns the signed 12-bit conversion result.
func (d Data) Value() int16 {
	return int16(uint16(d.raw[0])<<8|uint16(d.raw[1])) >> 4
}

// Voltage returns the conversion result in volts.
func (d Data) Voltage() float32 {
	return float32(d.Value()) * d.scale.LSB()
}
