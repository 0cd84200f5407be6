package curve

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// FromName returns the Curve whose Name() is name.
func FromName(name string) (Curve, error) {
	switch name {
	case Secp256k1{}.Name():
		return Secp256k1{}, nil
	case Ristretto255{}.Name():
		return Ristretto255{}, nil
	default:
		return nil, fmt.Errorf("curve: unknown group %q", name)
	}
}

type marshallableGroupData struct {
	Group string
	Data  []byte
}

// MarshallableScalar wraps a Scalar together with its group, so that it can be
// unmarshalled without knowing the group in advance.
type MarshallableScalar struct {
	Scalar Scalar
}

func NewMarshallableScalar(scalar Scalar) *MarshallableScalar {
	return &MarshallableScalar{Scalar: scalar}
}

func (m *MarshallableScalar) MarshalCBOR() ([]byte, error) {
	data, err := m.Scalar.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&marshallableGroupData{Group: m.Scalar.Curve().Name(), Data: data})
}

func (m *MarshallableScalar) UnmarshalCBOR(data []byte) error {
	var raw marshallableGroupData
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	group, err := FromName(raw.Group)
	if err != nil {
		return err
	}
	scalar := group.NewScalar()
	if err = scalar.UnmarshalBinary(raw.Data); err != nil {
		return err
	}
	m.Scalar = scalar
	return nil
}

// MarshallablePoint is the Point counterpart of MarshallableScalar.
type MarshallablePoint struct {
	Point Point
}

func NewMarshallablePoint(point Point) *MarshallablePoint {
	return &MarshallablePoint{Point: point}
}

func (m *MarshallablePoint) MarshalCBOR() ([]byte, error) {
	data, err := m.Point.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&marshallableGroupData{Group: m.Point.Curve().Name(), Data: data})
}

func (m *MarshallablePoint) UnmarshalCBOR(data []byte) error {
	var raw marshallableGroupData
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	group, err := FromName(raw.Group)
	if err != nil {
		return err
	}
	point := group.NewPoint()
	if err = point.UnmarshalBinary(raw.Data); err != nil {
		return err
	}
	m.Point = point
	return nil
}
