// Package model holds the minimal module-tree abstractions the training
// scripts need on the Go side, chiefly freezing batch-normalization
// statistics during fine-tuning.
package model

// Module is a node in a model tree.
type Module interface {
	Children() []Module
}

// Freezable is a layer that can switch between training and inference
// behavior.
type Freezable interface {
	SetTraining(bool)
}

// BatchNorm marks batch-normalization layers. FreezeNorm touches only
// modules implementing this interface.
type BatchNorm interface {
	Freezable
	// IsBatchNorm distinguishes batch-norm layers from other freezable
	// layers (e.g. dropout) that must keep their mode.
	IsBatchNorm()
}

// FreezeNorm walks the module tree rooted at m depth-first and switches
// every batch-normalization layer to inference mode, so running mean and
// variance stop updating. All other layers keep their current mode.
func FreezeNorm(m Module) {
	if bn, ok := m.(BatchNorm); ok {
		bn.SetTraining(false)
	}
	for _, c := range m.Children() {
		FreezeNorm(c)
	}
}

// BatchNorm2d is a 2D batch-normalization layer stub carrying only the
// mode flag relevant to freezing.
type BatchNorm2d struct {
	Training bool
}

// SetTraining sets the layer's mode.
func (b *BatchNorm2d) SetTraining(training bool) { b.Training = training }

// IsBatchNorm marks the layer as batch normalization.
func (b *BatchNorm2d) IsBatchNorm() {}

// Children returns no children; batch norm is a leaf layer.
func (b *BatchNorm2d) Children() []Module { return nil }
