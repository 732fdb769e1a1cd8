package wifi

import (
	"context"
	"testing"
	"time"

	"github.com/kazu728/reauthfi/internal/errors"
	"github.com/kazu728/reauthfi/internal/testutil"
)

const hardwarePorts = `
Hardware Port: Thunderbolt Bridge
Device: bridge0
Ethernet Address: N/A

Hardware Port: Wi-Fi
Device: en0
Ethernet Address: a4:83:e7:00:00:01

Hardware Port: Thunderbolt 1
Device: en1
Ethernet Address: 82:0a:b1:00:00:02
`

func TestParseDevice(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    string
		wantErr bool
	}{
		{name: "wifi port", listing: hardwarePorts, want: "en0"},
		{name: "legacy airport", listing: "Hardware Port: AirPort\nDevice: en1\n", want: "en1"},
		{name: "no wireless port", listing: "Hardware Port: Ethernet\nDevice: en0\n", wantErr: true},
		{name: "empty", listing: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDevice(tt.listing)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrNotFound) {
					t.Fatalf("ParseDevice() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDevice() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDevice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscoverDevice(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.Output{
		"networksetup -listallhardwareports": {Stdout: hardwarePorts},
	})

	got, err := NewNetworksetup(runner).DiscoverDevice(context.Background())
	if err != nil {
		t.Fatalf("DiscoverDevice() error: %v", err)
	}
	if got != "en0" {
		t.Errorf("DiscoverDevice() = %q, want en0", got)
	}
}

func TestDiscoverDevice_CommandFails(t *testing.T) {
	_, err := NewNetworksetup(testutil.NewFakeRunner(nil)).DiscoverDevice(context.Background())

	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, errors.ErrCommandFailed) {
		t.Errorf("error = %v, should wrap the command failure", err)
	}
}

func TestReset(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.Output{
		"networksetup -setairportpower en0 off": {},
		"networksetup -setairportpower en0 on":  {},
	})

	var slept []time.Duration
	ctrl := NewNetworksetup(runner,
		WithSettleDelay(3*time.Second),
		WithSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
	)

	if err := ctrl.Reset(context.Background(), "en0"); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	testutil.AssertCalls(t, runner.Calls(), []string{
		"networksetup -setairportpower en0 off",
		"networksetup -setairportpower en0 on",
	})
	if len(slept) != 1 || slept[0] != 3*time.Second {
		t.Errorf("slept = %v, want one 3s settle delay", slept)
	}
}

func TestReset_StopsAtFirstFailure(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.Output{
		"networksetup -setairportpower en0 off": {Err: errors.NewCommandError([]string{"networksetup"}, 1, "not permitted")},
	})
	ctrl := NewNetworksetup(runner, WithSleep(func(context.Context, time.Duration) error {
		t.Error("should not wait after a failed power-off")
		return nil
	}))

	err := ctrl.Reset(context.Background(), "en0")
	if !errors.Is(err, errors.ErrCommandFailed) {
		t.Fatalf("Reset() error = %v, want ErrCommandFailed", err)
	}
	testutil.AssertCalls(t, runner.Calls(), []string{"networksetup -setairportpower en0 off"})
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0) = %v", err)
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Sleep(1ms) = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep on canceled ctx = %v, want context.Canceled", err)
	}
}
