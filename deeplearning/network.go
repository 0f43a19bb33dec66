package deeplearning

import (
	"fmt"
	"math/rand"

	"github.com/mobiuscreek/sktime-dl/internal/nn"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// inceptionBlock is one inception module: an optional 1x1 bottleneck,
// three parallel convolutions with shrinking kernels, a max-pool branch
// with a 1x1 convolution, concatenation over channels, batch norm and
// ReLU. Output has 4*numFilters channels.
type inceptionBlock struct {
	bottleneck *nn.Conv1D[Backend] // nil when disabled or input is single-channel
	convs      []*nn.Conv1D[Backend]
	pool       *nn.MaxPool1D[Backend]
	poolConv   *nn.Conv1D[Backend]
	bn         *nn.BatchNorm1D[Backend]
	relu       *nn.ReLU[Backend]
}

func newInceptionBlock(
	inChannels, numFilters, kernelSize, bottleneckSize int,
	useBottleneck bool,
	rng *rand.Rand,
	backend Backend,
) *inceptionBlock {
	block := &inceptionBlock{
		relu: nn.NewReLU[Backend](),
	}

	convIn := inChannels
	if useBottleneck && inChannels > 1 {
		block.bottleneck = nn.NewConv1D(inChannels, bottleneckSize, 1, 1, nn.PaddingSame, false, rng, backend)
		convIn = bottleneckSize
	}

	// Parallel kernels: kernelSize, kernelSize/2, kernelSize/4.
	for i := 0; i < 3; i++ {
		k := kernelSize >> i
		if k < 1 {
			k = 1
		}
		block.convs = append(block.convs,
			nn.NewConv1D(convIn, numFilters, k, 1, nn.PaddingSame, false, rng, backend))
	}

	// The pooling branch reads the block input, not the bottleneck output.
	block.pool = nn.NewMaxPool1D[Backend](3, 1, nn.PaddingSame, backend)
	block.poolConv = nn.NewConv1D(inChannels, numFilters, 1, 1, nn.PaddingSame, false, rng, backend)

	block.bn = nn.NewBatchNorm1D(4*numFilters, backend)
	return block
}

func (b *inceptionBlock) Forward(input *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	x := input
	if b.bottleneck != nil {
		x = b.bottleneck.Forward(input)
	}

	branches := make([]*tensor.Tensor[float32, Backend], 0, len(b.convs)+1)
	for _, conv := range b.convs {
		branches = append(branches, conv.Forward(x))
	}
	branches = append(branches, b.poolConv.Forward(b.pool.Forward(input)))

	out := tensor.Cat(branches, 1)
	out = b.bn.Forward(out)
	return b.relu.Forward(out)
}

func (b *inceptionBlock) Parameters() []*nn.Parameter[Backend] {
	var params []*nn.Parameter[Backend]
	if b.bottleneck != nil {
		params = append(params, b.bottleneck.Parameters()...)
	}
	for _, conv := range b.convs {
		params = append(params, conv.Parameters()...)
	}
	params = append(params, b.poolConv.Parameters()...)
	params = append(params, b.bn.Parameters()...)
	return params
}

func (b *inceptionBlock) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	if b.bottleneck != nil {
		for k, v := range nn.PrefixStateDict("bottleneck", b.bottleneck.StateDict()) {
			state[k] = v
		}
	}
	for i, conv := range b.convs {
		for k, v := range nn.PrefixStateDict(fmt.Sprintf("conv%d", i), conv.StateDict()) {
			state[k] = v
		}
	}
	for k, v := range nn.PrefixStateDict("poolconv", b.poolConv.StateDict()) {
		state[k] = v
	}
	for k, v := range nn.PrefixStateDict("bn", b.bn.StateDict()) {
		state[k] = v
	}
	return state
}

func (b *inceptionBlock) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if b.bottleneck != nil {
		if err := b.bottleneck.LoadStateDict(nn.ExtractStateDict("bottleneck", state)); err != nil {
			return fmt.Errorf("bottleneck: %w", err)
		}
	}
	for i, conv := range b.convs {
		if err := conv.LoadStateDict(nn.ExtractStateDict(fmt.Sprintf("conv%d", i), state)); err != nil {
			return fmt.Errorf("conv%d: %w", i, err)
		}
	}
	if err := b.poolConv.LoadStateDict(nn.ExtractStateDict("poolconv", state)); err != nil {
		return fmt.Errorf("poolconv: %w", err)
	}
	if err := b.bn.LoadStateDict(nn.ExtractStateDict("bn", state)); err != nil {
		return fmt.Errorf("bn: %w", err)
	}
	return nil
}

// shortcutLayer is a residual connection: the residual input passes
// through a 1x1 convolution and batch norm, is added to the block
// output, and the sum goes through ReLU.
type shortcutLayer struct {
	conv *nn.Conv1D[Backend]
	bn   *nn.BatchNorm1D[Backend]
	relu *nn.ReLU[Backend]
}

func newShortcutLayer(inChannels, outChannels int, rng *rand.Rand, backend Backend) *shortcutLayer {
	return &shortcutLayer{
		conv: nn.NewConv1D(inChannels, outChannels, 1, 1, nn.PaddingSame, false, rng, backend),
		bn:   nn.NewBatchNorm1D(outChannels, backend),
		relu: nn.NewReLU[Backend](),
	}
}

func (s *shortcutLayer) Forward(residual, blockOut *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	shortcut := s.bn.Forward(s.conv.Forward(residual))
	return s.relu.Forward(shortcut.Add(blockOut))
}

func (s *shortcutLayer) Parameters() []*nn.Parameter[Backend] {
	return append(s.conv.Parameters(), s.bn.Parameters()...)
}

func (s *shortcutLayer) StateDict() map[string]*tensor.RawTensor {
	state := nn.PrefixStateDict("conv", s.conv.StateDict())
	for k, v := range nn.PrefixStateDict("bn", s.bn.StateDict()) {
		state[k] = v
	}
	return state
}

func (s *shortcutLayer) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := s.conv.LoadStateDict(nn.ExtractStateDict("conv", state)); err != nil {
		return fmt.Errorf("conv: %w", err)
	}
	if err := s.bn.LoadStateDict(nn.ExtractStateDict("bn", state)); err != nil {
		return fmt.Errorf("bn: %w", err)
	}
	return nil
}

// inceptionNetwork stacks Depth inception blocks with a residual
// shortcut after every third block, then global average pooling and a
// single-unit linear head.
type inceptionNetwork struct {
	blocks      []*inceptionBlock
	shortcuts   []*shortcutLayer
	gap         *nn.GlobalAvgPool1D[Backend]
	head        *nn.Linear[Backend]
	useResidual bool
}

func newInceptionNetwork(
	inChannels, numFilters, kernelSize, bottleneckSize, depth int,
	useResidual, useBottleneck bool,
	rng *rand.Rand,
	backend Backend,
) *inceptionNetwork {
	net := &inceptionNetwork{
		gap:         nn.NewGlobalAvgPool1D[Backend](),
		useResidual: useResidual,
	}

	channels := inChannels
	residualChannels := inChannels
	for d := 0; d < depth; d++ {
		block := newInceptionBlock(channels, numFilters, kernelSize, bottleneckSize, useBottleneck, rng, backend)
		net.blocks = append(net.blocks, block)
		channels = 4 * numFilters

		if useResidual && d%3 == 2 {
			net.shortcuts = append(net.shortcuts, newShortcutLayer(residualChannels, channels, rng, backend))
			residualChannels = channels
		}
	}

	net.head = nn.NewLinear(channels, 1, rng, backend)
	return net
}

func (n *inceptionNetwork) Forward(input *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	x := input
	residual := input
	shortcutIdx := 0

	for d, block := range n.blocks {
		x = block.Forward(x)
		if n.useResidual && d%3 == 2 {
			x = n.shortcuts[shortcutIdx].Forward(residual, x)
			residual = x
			shortcutIdx++
		}
	}

	return n.head.Forward(n.gap.Forward(x))
}

// SetTraining switches every batch norm layer between batch statistics
// and running statistics.
func (n *inceptionNetwork) SetTraining(training bool) {
	for _, block := range n.blocks {
		block.bn.SetTraining(training)
	}
	for _, shortcut := range n.shortcuts {
		shortcut.bn.SetTraining(training)
	}
}

func (n *inceptionNetwork) Parameters() []*nn.Parameter[Backend] {
	var params []*nn.Parameter[Backend]
	for _, block := range n.blocks {
		params = append(params, block.Parameters()...)
	}
	for _, shortcut := range n.shortcuts {
		params = append(params, shortcut.Parameters()...)
	}
	params = append(params, n.head.Parameters()...)
	return params
}

func (n *inceptionNetwork) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	for i, block := range n.blocks {
		for k, v := range nn.PrefixStateDict(fmt.Sprintf("block%d", i), block.StateDict()) {
			state[k] = v
		}
	}
	for i, shortcut := range n.shortcuts {
		for k, v := range nn.PrefixStateDict(fmt.Sprintf("shortcut%d", i), shortcut.StateDict()) {
			state[k] = v
		}
	}
	for k, v := range nn.PrefixStateDict("head", n.head.StateDict()) {
		state[k] = v
	}
	return state
}

func (n *inceptionNetwork) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for i, block := range n.blocks {
		prefix := fmt.Sprintf("block%d", i)
		if err := block.LoadStateDict(nn.ExtractStateDict(prefix, state)); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
	}
	for i, shortcut := range n.shortcuts {
		prefix := fmt.Sprintf("shortcut%d", i)
		if err := shortcut.LoadStateDict(nn.ExtractStateDict(prefix, state)); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
	}
	if err := n.head.LoadStateDict(nn.ExtractStateDict("head", state)); err != nil {
		return fmt.Errorf("head: %w", err)
	}
	return nil
}
