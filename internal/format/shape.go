package format

// Shape describes the structural rules one record type imposes on its fields.
// The same table drives validation on decode and on encode.
type Shape struct {
	// Payload is the required payload length in bytes, or VariablePayload
	// when the type carries arbitrary data.
	Payload int

	// AddrZero requires the 16-bit address field to be zero.
	AddrZero bool

	// Emittable marks types the encoder may produce. Extended Segment
	// Address records are accepted on input for legacy images but never
	// generated.
	Emittable bool
}

// VariablePayload marks a type whose payload length is bounded only by
// MaxPayloadBytes.
const VariablePayload = -1

var shapes = [TypeCount]Shape{
	TypeData:             {Payload: VariablePayload, AddrZero: false, Emittable: true},
	TypeEndOfFile:        {Payload: 0, AddrZero: true, Emittable: true},
	TypeExtSegmentAddr:   {Payload: 2, AddrZero: true, Emittable: false},
	TypeStartSegmentAddr: {Payload: 4, AddrZero: true, Emittable: true},
	TypeExtLinearAddr:    {Payload: 2, AddrZero: true, Emittable: true},
	TypeStartLinearAddr:  {Payload: 4, AddrZero: true, Emittable: true},
}

// ShapeOf returns the shape rules for a raw type code. The second return is
// false for codes outside the six defined types.
func ShapeOf(code byte) (Shape, bool) {
	if int(code) >= TypeCount {
		return Shape{}, false
	}
	return shapes[code], true
}
