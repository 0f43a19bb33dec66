package tensor

// Backend defines the interface that compute backends implement.
// Backends own the actual math behind every tensor operation; the
// estimator layer above never touches element data directly.
//
// Convolution and pooling operate on channels-first series tensors
// [batch, channels, length]. Padding is expressed as explicit left and
// right amounts so that "same" padding on even kernel sizes (Keras
// style: the extra element goes on the right) is representable.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: (M,K) @ (K,N) -> (M,N).
	MatMul(a, b *RawTensor) *RawTensor

	// Conv1D convolves input [N, C_in, L] with kernel [C_out, C_in, K].
	Conv1D(input, kernel *RawTensor, stride, padLeft, padRight int) *RawTensor
	// Conv1DInputBackward computes the gradient w.r.t. the convolution input.
	Conv1DInputBackward(input, kernel, grad *RawTensor, stride, padLeft, padRight int) *RawTensor
	// Conv1DKernelBackward computes the gradient w.r.t. the convolution kernel.
	Conv1DKernelBackward(input, kernel, grad *RawTensor, stride, padLeft, padRight int) *RawTensor

	// MaxPool1D pools input [N, C, L] over windows of kernelSize.
	// Out-of-range (padded) positions are ignored, not treated as zero.
	MaxPool1D(input *RawTensor, kernelSize, stride, padLeft, padRight int) *RawTensor
	// MaxPool1DBackward routes the output gradient to the argmax positions.
	MaxPool1DBackward(input, grad *RawTensor, kernelSize, stride, padLeft, padRight int) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Cat concatenates tensors along a dimension.
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Narrow returns a copy of a slice [start, start+length) along a dimension.
	Narrow(x *RawTensor, dim, start, length int) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
