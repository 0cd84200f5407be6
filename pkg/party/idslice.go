package party

import (
	"encoding/binary"
	"io"
	"sort"
)

// IDSlice is a sorted slice of unique IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of partyIDs.
func NewIDSlice(partyIDs []ID) IDSlice {
	ids := IDSlice(partyIDs).Copy()
	ids.sort()
	return ids
}

// Contains returns true if partyIDs contains the queried IDs.
func (partyIDs IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if _, ok := partyIDs.search(id); !ok {
			return false
		}
	}
	return true
}

// Valid returns true if the IDSlice is sorted, does not contain duplicates
// nor the empty ID.
func (partyIDs IDSlice) Valid() bool {
	for i, id := range partyIDs {
		if id == "" {
			return false
		}
		if i > 0 && partyIDs[i-1] >= id {
			return false
		}
	}
	return true
}

// Copy returns an identical copy of the received.
func (partyIDs IDSlice) Copy() IDSlice {
	a := make(IDSlice, len(partyIDs))
	copy(a, partyIDs)
	return a
}

// Remove finds id in partyIDs and returns a copy of the slice if it was found.
func (partyIDs IDSlice) Remove(id ID) IDSlice {
	newPartyIDs := make(IDSlice, 0, len(partyIDs))
	for _, partyID := range partyIDs {
		if partyID != id {
			newPartyIDs = append(newPartyIDs, partyID)
		}
	}
	return newPartyIDs
}

// Len Swap and Less implement sort.Interface.
func (partyIDs IDSlice) Len() int           { return len(partyIDs) }
func (partyIDs IDSlice) Less(i, j int) bool { return partyIDs[i] < partyIDs[j] }
func (partyIDs IDSlice) Swap(i, j int)      { partyIDs[i], partyIDs[j] = partyIDs[j], partyIDs[i] }

func (partyIDs IDSlice) sort() { sort.Sort(partyIDs) }

// search returns the index of x and true if it was found.
func (partyIDs IDSlice) search(x ID) (int, bool) {
	index := sort.Search(len(partyIDs), func(i int) bool { return partyIDs[i] >= x })
	if index < len(partyIDs) && partyIDs[index] == x {
		return index, true
	}
	return 0, false
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	if partyIDs == nil {
		return 0, io.ErrUnexpectedEOF
	}
	nAll := int64(0)
	var lengths [8]byte
	binary.BigEndian.PutUint64(lengths[:], uint64(len(partyIDs)))
	n, err := w.Write(lengths[:])
	nAll += int64(n)
	if err != nil {
		return nAll, err
	}
	for _, id := range partyIDs {
		binary.BigEndian.PutUint64(lengths[:], uint64(len(id)))
		n, err = w.Write(lengths[:])
		nAll += int64(n)
		if err != nil {
			return nAll, err
		}
		n64, err := id.WriteTo(w)
		nAll += n64
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (IDSlice) Domain() string {
	return "IDSlice"
}
