package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// File is an entry to be packed by Write.
type File struct {
	Name string
	Data []byte
}

// Create writes files into a new archive at path.
func Create(path string, files []File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := Write(files)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write encodes files as a version 0x200 archive.
// Entries are zlib-compressed and stored in name order.
func Write(files []File) ([]byte, error) {
	sorted := make([]File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var body bytes.Buffer
	var table bytes.Buffer

	for _, f := range sorted {
		compressed, err := deflate(f.Data)
		if err != nil {
			return nil, fmt.Errorf("compressing %s: %w", f.Name, err)
		}

		offset := uint32(body.Len())
		aligned := (len(compressed) + 7) &^ 7
		body.Write(compressed)
		body.Write(make([]byte, aligned-len(compressed)))

		table.Write(encodeName(f.Name))
		table.WriteByte(0)
		var rec [17]byte
		binary.LittleEndian.PutUint32(rec[0:], uint32(len(compressed)))
		binary.LittleEndian.PutUint32(rec[4:], uint32(aligned))
		binary.LittleEndian.PutUint32(rec[8:], uint32(len(f.Data)))
		rec[12] = flagFile
		binary.LittleEndian.PutUint32(rec[13:], offset)
		table.Write(rec[:])
	}

	compressedTable, err := deflate(table.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compressing table: %w", err)
	}

	var out bytes.Buffer
	var header [headerSize]byte
	copy(header[0:15], grfMagic)
	binary.LittleEndian.PutUint32(header[30:], uint32(body.Len()))
	binary.LittleEndian.PutUint32(header[34:], 0)
	binary.LittleEndian.PutUint32(header[38:], uint32(len(sorted)+7))
	binary.LittleEndian.PutUint32(header[42:], version200)
	out.Write(header[:])
	out.Write(body.Bytes())

	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:], uint32(len(compressedTable)))
	binary.LittleEndian.PutUint32(sizes[4:], uint32(table.Len()))
	out.Write(sizes[:])
	out.Write(compressedTable)

	return out.Bytes(), nil
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
