package bundle

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/QuickEst-app/QuickEst/internal/domain"
)

// A project bundle is a directory of per-table binary files plus a JSON
// manifest mapping each table to its file name and SHA-256 digest. The binary
// layout is big-endian throughout: int32 counts and ratings, IEEE-754 float64
// weights, and strings as a uint32 byte length followed by UTF-8 bytes.

const ManifestExtension = ".qckproj"

var (
	ErrHashMismatch    = fmt.Errorf("bundle file digest does not match manifest")
	ErrManifestMissing = fmt.Errorf("bundle manifest not found")
)

type manifestEntry struct {
	FileName string `json:"file_name"`
	Hash     string `json:"hash"`
}

type manifest map[string]manifestEntry

var tableFiles = map[string]string{
	"project":               "project.qck",
	"parameters":            "parameters.qck",
	"actors":                "actors.qck",
	"use_cases":             "use_cases.qck",
	"technical_factors":     "technical_factors.qck",
	"environmental_factors": "environmental_factors.qck",
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) writeInt32(v int32) {
	binary.Write(&e.buf, binary.BigEndian, v)
}

func (e *encoder) writeFloat64(v float64) {
	binary.Write(&e.buf, binary.BigEndian, math.Float64bits(v))
}

func (e *encoder) writeString(s string) {
	raw := []byte(s)
	binary.Write(&e.buf, binary.BigEndian, uint32(len(raw)))
	e.buf.Write(raw)
}

type decoder struct {
	r   *bytes.Reader
	err error
}

func newDecoder(raw []byte) *decoder {
	return &decoder{r: bytes.NewReader(raw)}
}

func (d *decoder) readInt32() int32 {
	if d.err != nil {
		return 0
	}
	var v int32
	d.err = binary.Read(d.r, binary.BigEndian, &v)
	return v
}

func (d *decoder) readFloat64() float64 {
	if d.err != nil {
		return 0
	}
	var bits uint64
	d.err = binary.Read(d.r, binary.BigEndian, &bits)
	return math.Float64frombits(bits)
}

func (d *decoder) readString() string {
	if d.err != nil {
		return ""
	}
	var length uint32
	if d.err = binary.Read(d.r, binary.BigEndian, &length); d.err != nil {
		return ""
	}
	if int64(length) > int64(d.r.Len()) {
		d.err = fmt.Errorf("string length %d exceeds remaining input", length)
		return ""
	}
	raw := make([]byte, length)
	if _, d.err = d.r.Read(raw); d.err != nil {
		return ""
	}
	return string(raw)
}

func encodeProject(p domain.Project) []byte {
	var e encoder
	favorite := int32(0)
	if p.Favorite {
		favorite = 1
	}
	e.writeInt32(favorite)
	e.writeString(p.Name)
	e.writeString(p.Description)
	return e.buf.Bytes()
}

func decodeProject(raw []byte) (domain.Project, error) {
	d := newDecoder(raw)
	favorite := d.readInt32()
	name := d.readString()
	description := d.readString()
	if d.err != nil {
		return domain.Project{}, fmt.Errorf("decode project: %w", d.err)
	}
	return domain.Project{Favorite: favorite != 0, Name: name, Description: description}, nil
}

func encodeParameters(p domain.Parameters) []byte {
	var e encoder
	e.writeFloat64(p.CF)
	e.writeFloat64(p.AnalysisPercentage)
	e.writeFloat64(p.DesignPercentage)
	e.writeFloat64(p.ProgrammingPercentage)
	e.writeFloat64(p.TestingPercentage)
	e.writeFloat64(p.OverloadingPercentage)
	e.writeFloat64(p.ActorWeights.Simple)
	e.writeFloat64(p.ActorWeights.Average)
	e.writeFloat64(p.ActorWeights.Complex)
	e.writeFloat64(p.UseCaseWeights.Simple)
	e.writeFloat64(p.UseCaseWeights.Average)
	e.writeFloat64(p.UseCaseWeights.Complex)
	return e.buf.Bytes()
}

func decodeParameters(raw []byte) (domain.Parameters, error) {
	d := newDecoder(raw)
	p := domain.Parameters{
		CF:                    d.readFloat64(),
		AnalysisPercentage:    d.readFloat64(),
		DesignPercentage:      d.readFloat64(),
		ProgrammingPercentage: d.readFloat64(),
		TestingPercentage:     d.readFloat64(),
		OverloadingPercentage: d.readFloat64(),
	}
	p.ActorWeights = domain.WeightTriple{Simple: d.readFloat64(), Average: d.readFloat64(), Complex: d.readFloat64()}
	p.UseCaseWeights = domain.WeightTriple{Simple: d.readFloat64(), Average: d.readFloat64(), Complex: d.readFloat64()}
	if d.err != nil {
		return domain.Parameters{}, fmt.Errorf("decode parameters: %w", d.err)
	}
	return p, nil
}

func encodeActors(actors []domain.Actor) []byte {
	var e encoder
	e.writeInt32(int32(len(actors)))
	for _, a := range actors {
		e.writeString(a.Code)
		e.writeString(a.Name)
		e.writeString(string(a.Complexity))
		e.writeString(a.Comment)
	}
	return e.buf.Bytes()
}

func decodeActors(raw []byte) ([]domain.Actor, error) {
	d := newDecoder(raw)
	count := d.readInt32()
	if d.err != nil || count < 0 {
		return nil, fmt.Errorf("decode actors: invalid record count")
	}
	actors := make([]domain.Actor, 0, count)
	for i := int32(0); i < count; i++ {
		a := domain.Actor{
			Code:       d.readString(),
			Name:       d.readString(),
			Complexity: domain.Complexity(d.readString()),
			Comment:    d.readString(),
		}
		if d.err != nil {
			return nil, fmt.Errorf("decode actors: %w", d.err)
		}
		actors = append(actors, a)
	}
	return actors, nil
}

func encodeUseCases(useCases []domain.UseCase) []byte {
	var e encoder
	e.writeInt32(int32(len(useCases)))
	for _, u := range useCases {
		e.writeString(u.Code)
		e.writeString(u.Name)
		e.writeString(string(u.Complexity))
		e.writeInt32(int32(u.Transactions))
		e.writeString(u.Comment)
	}
	return e.buf.Bytes()
}

func decodeUseCases(raw []byte) ([]domain.UseCase, error) {
	d := newDecoder(raw)
	count := d.readInt32()
	if d.err != nil || count < 0 {
		return nil, fmt.Errorf("decode use cases: invalid record count")
	}
	useCases := make([]domain.UseCase, 0, count)
	for i := int32(0); i < count; i++ {
		u := domain.UseCase{
			Code:         d.readString(),
			Name:         d.readString(),
			Complexity:   domain.Complexity(d.readString()),
			Transactions: int(d.readInt32()),
			Comment:      d.readString(),
		}
		if d.err != nil {
			return nil, fmt.Errorf("decode use cases: %w", d.err)
		}
		useCases = append(useCases, u)
	}
	return useCases, nil
}

func encodeFactors(factors []domain.Factor) []byte {
	var e encoder
	e.writeInt32(int32(len(factors)))
	for _, f := range factors {
		e.writeString(f.Factor)
		e.writeString(f.Description)
		e.writeFloat64(f.Weight)
		e.writeInt32(int32(f.Influence))
		e.writeString(f.Comment)
	}
	return e.buf.Bytes()
}

func decodeFactors(raw []byte) ([]domain.Factor, error) {
	d := newDecoder(raw)
	count := d.readInt32()
	if d.err != nil || count < 0 {
		return nil, fmt.Errorf("decode factors: invalid record count")
	}
	factors := make([]domain.Factor, 0, count)
	for i := int32(0); i < count; i++ {
		f := domain.Factor{
			Factor:      d.readString(),
			Description: d.readString(),
			Weight:      d.readFloat64(),
			Influence:   int(d.readInt32()),
			Comment:     d.readString(),
		}
		if d.err != nil {
			return nil, fmt.Errorf("decode factors: %w", d.err)
		}
		factors = append(factors, f)
	}
	return factors, nil
}

func digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ExportProject writes the six table files and the manifest into dir and
// returns the manifest path.
func ExportProject(dir string, data domain.ProjectData) (string, error) {
	tables := map[string][]byte{
		"project":               encodeProject(data.Project),
		"parameters":            encodeParameters(data.Parameters),
		"actors":                encodeActors(data.Actors),
		"use_cases":             encodeUseCases(data.UseCases),
		"technical_factors":     encodeFactors(data.TechnicalFactors),
		"environmental_factors": encodeFactors(data.EnvironmentalFactors),
	}

	m := make(manifest, len(tables))
	for table, raw := range tables {
		fileName := tableFiles[table]
		if err := os.WriteFile(filepath.Join(dir, fileName), raw, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", fileName, err)
		}
		m[table] = manifestEntry{FileName: fileName, Hash: digest(raw)}
	}

	manifestRaw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	manifestPath := filepath.Join(dir, data.Project.Name+ManifestExtension)
	if err := os.WriteFile(manifestPath, manifestRaw, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return manifestPath, nil
}

// FindManifest scans dir for a single manifest file.
func FindManifest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ManifestExtension) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", ErrManifestMissing
}

// ImportProject reads a manifest, verifies every table file digest and decodes
// the full project state. A digest mismatch yields ErrHashMismatch.
func ImportProject(manifestPath string) (domain.ProjectData, error) {
	manifestRaw, err := os.ReadFile(manifestPath)
	if err != nil {
		return domain.ProjectData{}, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(manifestRaw, &m); err != nil {
		return domain.ProjectData{}, fmt.Errorf("parse manifest: %w", err)
	}

	dir := filepath.Dir(manifestPath)
	tables := make(map[string][]byte, len(m))
	for table := range tableFiles {
		entry, ok := m[table]
		if !ok {
			return domain.ProjectData{}, fmt.Errorf("manifest missing table %q", table)
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.FileName))
		if err != nil {
			return domain.ProjectData{}, fmt.Errorf("read %s: %w", entry.FileName, err)
		}
		if digest(raw) != entry.Hash {
			return domain.ProjectData{}, fmt.Errorf("%s: %w", entry.FileName, ErrHashMismatch)
		}
		tables[table] = raw
	}

	var data domain.ProjectData
	if data.Project, err = decodeProject(tables["project"]); err != nil {
		return domain.ProjectData{}, err
	}
	if data.Parameters, err = decodeParameters(tables["parameters"]); err != nil {
		return domain.ProjectData{}, err
	}
	if data.Actors, err = decodeActors(tables["actors"]); err != nil {
		return domain.ProjectData{}, err
	}
	if data.UseCases, err = decodeUseCases(tables["use_cases"]); err != nil {
		return domain.ProjectData{}, err
	}
	if data.TechnicalFactors, err = decodeFactors(tables["technical_factors"]); err != nil {
		return domain.ProjectData{}, err
	}
	if data.EnvironmentalFactors, err = decodeFactors(tables["environmental_factors"]); err != nil {
		return domain.ProjectData{}, err
	}
	return data, nil
}
