package tri

import (
	"errors"
	"image"
	"testing"
)

func newTestTarget() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 16, 16))
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		ct   CommandType
		want string
	}{
		{CmdComputePass, "ComputePass"},
		{CmdBarrier, "Barrier"},
		{CmdRenderPass, "RenderPass"},
		{CommandType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestPassStateString(t *testing.T) {
	if got := PassStateRecording.String(); got != "Recording" {
		t.Errorf("PassStateRecording.String() = %q, want Recording", got)
	}
	if got := PassStateEnded.String(); got != "Ended" {
		t.Errorf("PassStateEnded.String() = %q, want Ended", got)
	}
	if got := PassState(7).String(); got != "Unknown(7)" {
		t.Errorf("PassState(7).String() = %q, want Unknown(7)", got)
	}
}

func TestEncoderRecordsCanonicalStream(t *testing.T) {
	enc := NewCommandEncoder()

	cp, err := enc.BeginComputePass()
	if err != nil {
		t.Fatalf("BeginComputePass() = %v", err)
	}
	if err := cp.SetSelection(Selection{0, 1, 2}); err != nil {
		t.Fatalf("SetSelection() = %v", err)
	}
	if err := cp.Dispatch(1, 1, 1); err != nil {
		t.Fatalf("Dispatch() = %v", err)
	}
	if err := cp.End(); err != nil {
		t.Fatalf("ComputePass.End() = %v", err)
	}

	if err := enc.Barrier(); err != nil {
		t.Fatalf("Barrier() = %v", err)
	}

	rp, err := enc.BeginRenderPass(newTestTarget(), RGB(0, 0, 0))
	if err != nil {
		t.Fatalf("BeginRenderPass() = %v", err)
	}
	if err := rp.DrawTriangle(); err != nil {
		t.Fatalf("DrawTriangle() = %v", err)
	}
	if err := rp.End(); err != nil {
		t.Fatalf("RenderPass.End() = %v", err)
	}

	cb, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	if cb.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", cb.Len())
	}
	wantTypes := []CommandType{CmdComputePass, CmdBarrier, CmdRenderPass}
	for i, cmd := range cb.Commands() {
		if cmd.Type() != wantTypes[i] {
			t.Errorf("command %d type = %v, want %v", i, cmd.Type(), wantTypes[i])
		}
	}
}

func TestEncoderOnePassAtATime(t *testing.T) {
	enc := NewCommandEncoder()
	cp, err := enc.BeginComputePass()
	if err != nil {
		t.Fatalf("BeginComputePass() = %v", err)
	}

	if _, err := enc.BeginComputePass(); !errors.Is(err, ErrPassActive) {
		t.Errorf("second BeginComputePass() = %v, want ErrPassActive", err)
	}
	if _, err := enc.BeginRenderPass(newTestTarget(), RGBA{}); !errors.Is(err, ErrPassActive) {
		t.Errorf("BeginRenderPass() during pass = %v, want ErrPassActive", err)
	}
	if err := enc.Barrier(); !errors.Is(err, ErrPassActive) {
		t.Errorf("Barrier() during pass = %v, want ErrPassActive", err)
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrPassActive) {
		t.Errorf("Finish() during pass = %v, want ErrPassActive", err)
	}

	if err := cp.End(); err != nil {
		t.Fatalf("End() = %v", err)
	}
	if err := enc.Barrier(); err != nil {
		t.Errorf("Barrier() after ending pass = %v, want nil", err)
	}
}

func TestComputePassOpsAfterEnd(t *testing.T) {
	enc := NewCommandEncoder()
	cp, err := enc.BeginComputePass()
	if err != nil {
		t.Fatalf("BeginComputePass() = %v", err)
	}
	if got := cp.State(); got != PassStateRecording {
		t.Fatalf("State() = %v, want Recording", got)
	}
	if err := cp.End(); err != nil {
		t.Fatalf("End() = %v", err)
	}
	if got := cp.State(); got != PassStateEnded {
		t.Errorf("State() after End = %v, want Ended", got)
	}

	if err := cp.SetSelection(Selection{1, 1, 1}); !errors.Is(err, ErrPassEnded) {
		t.Errorf("SetSelection() after End = %v, want ErrPassEnded", err)
	}
	if err := cp.Dispatch(1, 1, 1); !errors.Is(err, ErrPassEnded) {
		t.Errorf("Dispatch() after End = %v, want ErrPassEnded", err)
	}
	if err := cp.End(); !errors.Is(err, ErrPassEnded) {
		t.Errorf("second End() = %v, want ErrPassEnded", err)
	}
}

func TestRenderPassOpsAfterEnd(t *testing.T) {
	enc := NewCommandEncoder()
	rp, err := enc.BeginRenderPass(newTestTarget(), RGBA{})
	if err != nil {
		t.Fatalf("BeginRenderPass() = %v", err)
	}
	if err := rp.End(); err != nil {
		t.Fatalf("End() = %v", err)
	}

	if err := rp.Draw(3, 1, 0, 0); !errors.Is(err, ErrPassEnded) {
		t.Errorf("Draw() after End = %v, want ErrPassEnded", err)
	}
	if err := rp.End(); !errors.Is(err, ErrPassEnded) {
		t.Errorf("second End() = %v, want ErrPassEnded", err)
	}
}

func TestEncoderOpsAfterFinish(t *testing.T) {
	enc := NewCommandEncoder()
	if _, err := enc.Finish(); err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	if _, err := enc.BeginComputePass(); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("BeginComputePass() after Finish = %v, want ErrEncoderFinished", err)
	}
	if _, err := enc.BeginRenderPass(newTestTarget(), RGBA{}); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("BeginRenderPass() after Finish = %v, want ErrEncoderFinished", err)
	}
	if err := enc.Barrier(); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("Barrier() after Finish = %v, want ErrEncoderFinished", err)
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("second Finish() = %v, want ErrEncoderFinished", err)
	}
}

func TestBeginRenderPassNilTarget(t *testing.T) {
	enc := NewCommandEncoder()
	if _, err := enc.BeginRenderPass(nil, RGBA{}); !errors.Is(err, ErrNilTarget) {
		t.Errorf("BeginRenderPass(nil) = %v, want ErrNilTarget", err)
	}
	// A failed begin must not leave the encoder stuck in a pass.
	if err := enc.Barrier(); err != nil {
		t.Errorf("Barrier() after failed begin = %v, want nil", err)
	}
}

func TestDrawTriangleRecordsCanonicalArgs(t *testing.T) {
	enc := NewCommandEncoder()
	rp, err := enc.BeginRenderPass(newTestTarget(), RGBA{})
	if err != nil {
		t.Fatalf("BeginRenderPass() = %v", err)
	}
	if err := rp.DrawTriangle(); err != nil {
		t.Fatalf("DrawTriangle() = %v", err)
	}
	if err := rp.End(); err != nil {
		t.Fatalf("End() = %v", err)
	}
	cb, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish() = %v", err)
	}

	cmd, ok := cb.Commands()[0].(renderPassCommand)
	if !ok {
		t.Fatalf("command 0 is %T, want renderPassCommand", cb.Commands()[0])
	}
	if len(cmd.draws) != 1 {
		t.Fatalf("recorded %d draws, want 1", len(cmd.draws))
	}
	want := drawCall{vertexCount: 3, instanceCount: 1}
	if cmd.draws[0] != want {
		t.Errorf("draw = %+v, want %+v", cmd.draws[0], want)
	}
}

func TestDispatchCapturesSelectionAtIssue(t *testing.T) {
	enc := NewCommandEncoder()
	cp, err := enc.BeginComputePass()
	if err != nil {
		t.Fatalf("BeginComputePass() = %v", err)
	}

	first := Selection{0, 1, 2}
	second := Selection{2, 2, 2}
	if err := cp.SetSelection(first); err != nil {
		t.Fatal(err)
	}
	if err := cp.Dispatch(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := cp.SetSelection(second); err != nil {
		t.Fatal(err)
	}
	if err := cp.Dispatch(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := cp.End(); err != nil {
		t.Fatal(err)
	}
	cb, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}

	cmd, ok := cb.Commands()[0].(computePassCommand)
	if !ok {
		t.Fatalf("command 0 is %T, want computePassCommand", cb.Commands()[0])
	}
	if len(cmd.dispatches) != 2 {
		t.Fatalf("recorded %d dispatches, want 2", len(cmd.dispatches))
	}
	if cmd.dispatches[0].selection != first {
		t.Errorf("dispatch 0 selection = %v, want %v", cmd.dispatches[0].selection, first)
	}
	if cmd.dispatches[1].selection != second {
		t.Errorf("dispatch 1 selection = %v, want %v", cmd.dispatches[1].selection, second)
	}
}

func TestCommandsReturnsCopy(t *testing.T) {
	enc := NewCommandEncoder()
	if err := enc.Barrier(); err != nil {
		t.Fatal(err)
	}
	cb, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}

	out := cb.Commands()
	out[0] = computePassCommand{}
	if got := cb.Commands()[0].Type(); got != CmdBarrier {
		t.Errorf("command 0 type = %v after caller mutation, want Barrier", got)
	}
}
