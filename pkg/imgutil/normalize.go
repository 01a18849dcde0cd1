package imgutil

import (
	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// ImageNet normalization constants applied to network inputs upstream.
var (
	imagenetMean = [3]float64{0.485, 0.456, 0.406}
	imagenetStd  = [3]float64{0.229, 0.224, 0.225}
)

// Normalize applies the ImageNet per-channel normalization to a rank-3
// CHW tensor with 3 channels: out = (in - mean) / std. The input is not
// modified.
func Normalize(t *tensor.Dense) (*tensor.Dense, error) {
	shape := t.Shape()
	if len(shape) != 3 || shape[0] != 3 {
		return nil, errors.New(errors.ErrCodeInvalidShape, "Normalize needs a 3xHxW tensor, got %v", shape)
	}

	out := t.Clone()
	h, w := shape[1], shape[2]
	data := out.Data()
	for c := 0; c < 3; c++ {
		base := c * h * w
		for i := 0; i < h*w; i++ {
			data[base+i] = (data[base+i] - imagenetMean[c]) / imagenetStd[c]
		}
	}
	return out, nil
}

// InvNormalize undoes the ImageNet per-channel normalization on a rank-3
// CHW tensor with 3 channels: out = in*std + mean. The input is not
// modified.
func InvNormalize(t *tensor.Dense) (*tensor.Dense, error) {
	shape := t.Shape()
	if len(shape) != 3 || shape[0] != 3 {
		return nil, errors.New(errors.ErrCodeInvalidShape, "InvNormalize needs a 3xHxW tensor, got %v", shape)
	}

	out := t.Clone()
	h, w := shape[1], shape[2]
	data := out.Data()
	for c := 0; c < 3; c++ {
		base := c * h * w
		for i := 0; i < h*w; i++ {
			data[base+i] = data[base+i]*imagenetStd[c] + imagenetMean[c]
		}
	}
	return out, nil
}
