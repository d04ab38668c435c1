package state

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/silvanus-labs/machetli/internal/gscodec"
	"github.com/silvanus-labs/machetli/internal/lifted"
)

const (
	blobMagic        = "MCH1"
	blobVersionOne   = 1
	blobKindGrounded = 0
	blobKindLifted   = 1
)

// CriticalError indicates the evaluator shim must exit with the Critical
// status: an incompatible state blob version, or any other condition the
// shim cannot recover from. It is distinct from the driver's per-candidate
// Critical status, which is what a Critical exit code becomes once
// observed by the driver.
type CriticalError struct {
	Reason string
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("state: critical: %s", e.Reason)
}

// EncodeBlob serializes s into a self-describing, versioned blob suitable
// for handing to an evaluator subprocess.
func EncodeBlob(s *State) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(blobMagic)
	buf.WriteByte(blobVersionOne)

	switch s.Kind {
	case Grounded:
		buf.WriteByte(blobKindGrounded)
		var taskBuf bytes.Buffer
		if err := gscodec.Write(&taskBuf, s.GroundedTask); err != nil {
			return nil, fmt.Errorf("state: encoding grounded task: %w", err)
		}
		writeLenPrefixed(&buf, taskBuf.Bytes())
	case Lifted:
		buf.WriteByte(blobKindLifted)
		writeLenPrefixed(&buf, s.LiftedTask.Domain)
		writeLenPrefixed(&buf, s.LiftedTask.Problem)
	default:
		return nil, fmt.Errorf("state: encoding: unknown kind %d", s.Kind)
	}

	return buf.Bytes(), nil
}

// DecodeBlob parses a blob produced by EncodeBlob. Any version or format
// mismatch is reported as *CriticalError, so the evaluator shim can exit
// Critical without further interpretation.
func DecodeBlob(data []byte) (*State, error) {
	if len(data) < len(blobMagic)+2 {
		return nil, &CriticalError{Reason: "blob too short to contain a header"}
	}
	if string(data[:len(blobMagic)]) != blobMagic {
		return nil, &CriticalError{Reason: "blob magic mismatch"}
	}
	r := bytes.NewReader(data[len(blobMagic):])

	version, err := r.ReadByte()
	if err != nil {
		return nil, &CriticalError{Reason: "blob missing version byte"}
	}
	if version != blobVersionOne {
		return nil, &CriticalError{Reason: fmt.Sprintf("blob version %d is not supported (expected %d)", version, blobVersionOne)}
	}

	kind, err := r.ReadByte()
	if err != nil {
		return nil, &CriticalError{Reason: "blob missing kind byte"}
	}

	switch kind {
	case blobKindGrounded:
		payload, err := readLenPrefixed(r)
		if err != nil {
			return nil, &CriticalError{Reason: fmt.Sprintf("blob grounded payload: %v", err)}
		}
		task, err := gscodec.Read(bytes.NewReader(payload))
		if err != nil {
			return nil, &CriticalError{Reason: fmt.Sprintf("blob grounded payload did not parse: %v", err)}
		}
		return NewGrounded(task), nil
	case blobKindLifted:
		domain, err := readLenPrefixed(r)
		if err != nil {
			return nil, &CriticalError{Reason: fmt.Sprintf("blob lifted domain: %v", err)}
		}
		problem, err := readLenPrefixed(r)
		if err != nil {
			return nil, &CriticalError{Reason: fmt.Sprintf("blob lifted problem: %v", err)}
		}
		return NewLifted(&lifted.Task{Domain: domain, Problem: problem}), nil
	default:
		return nil, &CriticalError{Reason: fmt.Sprintf("blob has unknown kind %d", kind)}
	}
}

func writeLenPrefixed(buf *bytes.Buffer, payload []byte) {
	var lenBytes [8]byte
	binary.BigEndian.PutUint64(lenBytes[:], uint64(len(payload)))
	buf.Write(lenBytes[:])
	buf.Write(payload)
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	var lenBytes [8]byte
	if _, err := io.ReadFull(r, lenBytes[:]); err != nil {
		return nil, fmt.Errorf("reading length prefix: %w", err)
	}
	n := binary.BigEndian.Uint64(lenBytes[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading %d byte payload: %w", n, err)
	}
	return payload, nil
}
