package monitor

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/particle"
)

const (
	partMagic    = "PART"
	partVersion  = uint32(1)
	partHeaderSz = 28
	partRecordSz = 21
)

// DumpWriter writes one binary PART file per step into Dir, named
// "<Prefix>_<step>.part". The format is a fixed 28-byte header followed by
// one 21-byte little-endian record per particle.
type DumpWriter[U any] struct {
	Dir    string
	Prefix string
}

// NewDumpWriter builds a DumpWriter rooted at dir; prefix defaults to
// "frame" when empty.
func NewDumpWriter[U any](dir, prefix string) *DumpWriter[U] {
	if prefix == "" {
		prefix = "frame"
	}
	return &DumpWriter[U]{Dir: dir, Prefix: prefix}
}

func (w *DumpWriter[U]) OnStep(sys SystemView[U]) error {
	path := filepath.Join(w.Dir, fmt.Sprintf("%s_%010d.part", w.Prefix, sys.Step()))
	f, err := os.Create(path)
	if err != nil {
		return aerr.New(aerr.IOError, "dump", "create %s: %v", path, err)
	}
	defer f.Close()

	var hdr [partHeaderSz]byte
	copy(hdr[0:4], partMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], partVersion)
	binary.LittleEndian.PutUint64(hdr[8:16], sys.Step())
	binary.LittleEndian.PutUint64(hdr[16:24], uint64(sys.ParticleCount()))
	binary.LittleEndian.PutUint32(hdr[24:28], 0)
	if _, err := f.Write(hdr[:]); err != nil {
		return aerr.New(aerr.IOError, "dump", "write header of %s: %v", path, err)
	}

	var buf [partRecordSz]byte
	var writeErr error
	sys.ForEachParticle(func(_ int, a particle.Accessor[U]) {
		if writeErr != nil {
			return
		}
		pos := a.Position()
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(pos[0])))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(pos[1])))
		binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(float32(pos[2])))
		binary.LittleEndian.PutUint32(buf[12:16], uint32(a.Type()))
		binary.LittleEndian.PutUint32(buf[16:20], uint32(a.ID()))
		buf[20] = byte(a.State())
		if _, err := f.Write(buf[:]); err != nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return aerr.New(aerr.IOError, "dump", "write record in %s: %v", path, writeErr)
	}
	return nil
}

// DumpRecord is one particle as stored in a PART file.
type DumpRecord struct {
	Position [3]float32
	Type     particle.Type
	ID       particle.ID
	State    particle.State
}

// DumpFrame is a parsed PART file.
type DumpFrame struct {
	Step    uint64
	Records []DumpRecord
}

// ReadDump parses a PART file written by DumpWriter.
func ReadDump(path string) (DumpFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DumpFrame{}, aerr.New(aerr.IOError, "dump", "read %s: %v", path, err)
	}
	if len(data) < partHeaderSz || string(data[0:4]) != partMagic {
		return DumpFrame{}, aerr.New(aerr.IOError, "dump", "%s is not a PART file", path)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != partVersion {
		return DumpFrame{}, aerr.New(aerr.IOError, "dump", "%s: unsupported PART version %d", path, v)
	}
	frame := DumpFrame{Step: binary.LittleEndian.Uint64(data[8:16])}
	count := binary.LittleEndian.Uint64(data[16:24])
	if uint64(len(data)-partHeaderSz) < count*partRecordSz {
		return DumpFrame{}, aerr.New(aerr.IOError, "dump", "%s: truncated at %d of %d records",
			path, (len(data)-partHeaderSz)/partRecordSz, count)
	}
	frame.Records = make([]DumpRecord, count)
	for i := range frame.Records {
		rec := data[partHeaderSz+i*partRecordSz:]
		frame.Records[i] = DumpRecord{
			Position: [3]float32{
				math.Float32frombits(binary.LittleEndian.Uint32(rec[0:4])),
				math.Float32frombits(binary.LittleEndian.Uint32(rec[4:8])),
				math.Float32frombits(binary.LittleEndian.Uint32(rec[8:12])),
			},
			Type:  particle.Type(binary.LittleEndian.Uint32(rec[12:16])),
			ID:    particle.ID(binary.LittleEndian.Uint32(rec[16:20])),
			State: particle.State(rec[20]),
		}
	}
	return frame, nil
}
