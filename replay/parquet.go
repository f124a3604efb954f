package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// ShardRow is the on-disk form of one Example. Float32 columns keep shards
// compact; precision beyond that carries no training signal.
type ShardRow struct {
	GameID    string    `parquet:"game_id,dict"`
	Iteration int32     `parquet:"iteration"`
	Ply       int32     `parquet:"ply"`
	Size      int32     `parquet:"size"`
	Board     []float32 `parquet:"board"`
	Policy    []float32 `parquet:"policy_probs"`
	Value     float32   `parquet:"value"`
	Source    string    `parquet:"source,dict"`
}

const shardSchema = "gomoku_example_v1"

// WriteShard writes examples as a timestamped parquet shard under outDir.
// The file is written to outDir/tmp and renamed into place so concurrent
// readers never observe a partially-written shard.
func WriteShard(outDir string, iteration int, examples []Example) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	rows := make([]ShardRow, len(examples))
	for i, ex := range examples {
		rows[i] = ShardRow{
			GameID:    fmt.Sprintf("iter_%d", iteration),
			Iteration: int32(iteration),
			Ply:       int32(i),
			Size:      int32(boardSize(ex)),
			Board:     toFloat32(ex.Board),
			Policy:    toFloat32(ex.Policy),
			Value:     float32(ex.Value),
			Source:    "selfplay",
		}
	}

	name := fmt.Sprintf("shard_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", shardSchema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// LoadDir reads every parquet shard directly under dir, in file-name order,
// and returns the stored examples. Used to warm the buffer when resuming
// training.
func LoadDir(dir string) ([]Example, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read shard dir: %w", err)
	}

	var out []Example
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".parquet") {
			continue
		}
		examples, err := readShard(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read shard %s: %w", entry.Name(), err)
		}
		out = append(out, examples...)
	}
	return out, nil
}

func readShard(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[ShardRow](f)
	defer reader.Close()

	var out []Example
	buf := make([]ShardRow, 256)
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			row := buf[i]
			out = append(out, Example{
				Board:  toFloat64(row.Board),
				Policy: toFloat64(row.Policy),
				Value:  float64(row.Value),
			})
		}
		if err != nil {
			break
		}
	}
	return out, nil
}

func boardSize(ex Example) int {
	n := 0
	for n*n < len(ex.Board) {
		n++
	}
	return n
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
