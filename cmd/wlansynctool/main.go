// Command wlansynctool exercises the 802.11a/g frame synchronizer
// end to end: it assembles a frame with FrameGenerator, pushes it
// through a simulated AWGN-plus-CFO channel, and streams the result
// through FrameSync, reporting whatever the receive callback decodes.
// It mirrors the reference wlanframesync_example.c test harness.
package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/go80211/wlanbb/internal/dsp"
	"github.com/go80211/wlanbb/internal/fec"
	"github.com/go80211/wlanbb/internal/wlan"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: wlansynctool [OPTION]")
	pflag.PrintDefaults()
}

func main() {
	snrDB := pflag.Float64P("snr", "s", 20.0, "signal-to-noise ratio [dB]")
	cfo := pflag.Float64P("cfo", "F", 0.002, "carrier frequency offset [rad/sample]")
	length := pflag.IntP("length", "l", 100, "payload length in bytes")
	rateIdx := pflag.IntP("rate", "r", 4, "rate table index [0,7] (4 = 24 Mbit/s)")
	noisePrefix := pflag.IntP("noise-prefix", "n", 2048, "noise samples to prefix before the frame")
	verbose := pflag.BoolP("verbose", "v", false, "enable acquisition tracing")
	help := pflag.BoolP("help", "h", false, "print help")
	pflag.Usage = usage
	pflag.Parse()

	if *help {
		usage()
		return
	}

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	rawPayload := make([]byte, *length)
	rand.Read(rawPayload) //nolint:errcheck // math/rand.Read never errors

	// The PLCP payload itself carries no FCS (spec: MAC-layer integrity
	// is out of scope), but a demo harness still wants an end-to-end
	// correctness check independent of the Viterbi/descrambler path, so
	// it appends its own CRC-32 the way a MAC layer would.
	payload := fec.AppendCRC32(rawPayload)

	tx := wlan.TxDescriptor{
		Length:     len(payload),
		DataRate:   *rateIdx,
		Service:    0,
		TxPwrLevel: 1,
	}

	gen := wlan.NewFrameGenerator()
	if err := gen.Assemble(payload, tx); err != nil {
		logger.Fatal("assemble failed", "err", err)
	}

	var frame []complex128
	buf := make([]complex128, 80)
	for {
		last, err := gen.WriteSymbol(buf)
		if err != nil {
			logger.Fatal("writesymbol failed", "err", err)
		}
		frame = append(frame, append([]complex128{}, buf...)...)
		if last {
			break
		}
	}

	stream := simulateChannel(frame, *snrDB, *cfo, *noisePrefix)

	// spec §1 treats AGC and DC removal as RF-front-end services the
	// synchronizer assumes already ran; this demo plays the front end's
	// role for itself, since simulateChannel deliberately mis-scales and
	// DC-offsets the stream to exercise that assumption realistically.
	dsp.NewAGC().Normalize(stream)
	dsp.RemoveDC(stream)

	var decoded int
	fs := wlan.NewFrameSync(func(payload []byte, rx wlan.RxDescriptor) {
		decoded++
		body, crcOK := fec.VerifyCRC32(payload)
		logger.Info("frame decoded",
			"length", rx.Length,
			"rate_mbps", rx.DataRate,
			"rssi", rx.RSSI,
			"service", rx.Service,
			"crc_ok", crcOK,
			"payload_bytes", len(body),
		)
	})
	if *verbose {
		fs.Trace = logger
	}
	fs.Execute(stream)

	if decoded == 0 {
		logger.Warn("no frame recovered")
		os.Exit(1)
	}
}

// simulateChannel prefixes noisePrefix samples of complex white noise
// at the target SNR, rotates the frame by a fixed CFO using the same
// NCO type the synchronizer itself uses to down-mix, scales it by an
// arbitrary front-end gain and a DC offset, and appends matching noise
// after it, approximating the reference example's channel model.
func simulateChannel(frame []complex128, snrDB, cfo float64, noisePrefix int) []complex128 {
	noiseStd := math.Pow(10, -snrDB/20)
	const frontEndGain = 3.7
	const dcOffset = complex(0.05, -0.03)

	out := make([]complex128, 0, noisePrefix*2+len(frame))
	for i := 0; i < noisePrefix; i++ {
		out = append(out, complexNoise(noiseStd))
	}

	nco := dsp.NewNCO()
	nco.SetFrequency(cfo)
	for _, s := range frame {
		rot := cmplx.Conj(nco.MixDown(1))
		out = append(out, s*rot*frontEndGain+dcOffset+complexNoise(noiseStd))
		nco.Step()
	}

	for i := 0; i < noisePrefix; i++ {
		out = append(out, complexNoise(noiseStd))
	}
	return out
}

func complexNoise(std float64) complex128 {
	return complex(rand.NormFloat64()*std, rand.NormFloat64()*std)
}
