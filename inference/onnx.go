// Package inference evaluates positions with a frozen ONNX export of the
// policy/value network. It is the deployment path: training stays on the
// native nets, play can run against an exported graph via ONNX Runtime.
package inference

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the ONNX Runtime environment once per process.
// The shared library location can be overridden with ORT_SHARED_LIBRARY_PATH.
func initRuntime() error {
	ortInitOnce.Do(func() {
		if path := os.Getenv("ORT_SHARED_LIBRARY_PATH"); path != "" {
			ort.SetSharedLibraryPath(path)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Client runs a policy/value model exported to ONNX. It satisfies
// mcts.Predictor. Run is serialized; ONNX Runtime sessions tolerate
// concurrent calls but we keep the same single-flight discipline as the
// native nets.
type Client struct {
	mu        sync.Mutex
	session   *ort.DynamicAdvancedSession
	boardSize int
}

// NewClient loads the model at modelPath. The graph must take a single
// input "input" of shape [1, n*n] and produce "policy" [1, n*n] and
// "value" [1, 1].
func NewClient(modelPath string, boardSize int) (*Client, error) {
	if err := initRuntime(); err != nil {
		return nil, fmt.Errorf("initializing onnx runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer options.Destroy()

	// CUDA is opportunistic; CPU execution is always available.
	if cudaOptions, err := ort.NewCUDAProviderOptions(); err == nil {
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			log.Debug().Err(err).Msg("cuda provider unavailable, using cpu")
		} else {
			log.Info().Msg("cuda provider enabled")
		}
		cudaOptions.Destroy()
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input"}, []string{"policy", "value"}, options)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", modelPath, err)
	}

	return &Client{session: session, boardSize: boardSize}, nil
}

// Predict evaluates a canonical board encoding.
func (c *Client) Predict(board []float64) ([]float64, float64, error) {
	n := c.boardSize * c.boardSize
	if len(board) != n {
		return nil, 0, fmt.Errorf("board has %d cells, model expects %d", len(board), n)
	}

	input := make([]float32, n)
	for i, v := range board {
		input[i] = float32(v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(n)), input)
	if err != nil {
		return nil, 0, fmt.Errorf("creating input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n)))
	if err != nil {
		return nil, 0, fmt.Errorf("creating policy tensor: %w", err)
	}
	defer policyTensor.Destroy()

	valueTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return nil, 0, fmt.Errorf("creating value tensor: %w", err)
	}
	defer valueTensor.Destroy()

	err = c.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor, valueTensor})
	if err != nil {
		return nil, 0, fmt.Errorf("running inference: %w", err)
	}

	raw := policyTensor.GetData()
	policy := make([]float64, n)
	for i, v := range raw {
		policy[i] = float64(v)
	}
	value := float64(valueTensor.GetData()[0])
	if value > 1 {
		value = 1
	} else if value < -1 {
		value = -1
	}
	return policy, value, nil
}

// Close releases the session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		err := c.session.Destroy()
		c.session = nil
		return err
	}
	return nil
}
