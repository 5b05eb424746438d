package parser

import (
	"fmt"
	"strings"
	"testing"
)

// buildReport generates a synthetic report with the given number of
// ports and ONTs per port.
func buildReport(ports, onts int) string {
	var sb strings.Builder
	for p := 0; p < ports; p++ {
		fmt.Fprintf(&sb, "In port 0/%d/%d, the total of ONTs are: %d, online: %d\n",
			p/16, p%16, onts, onts)
		sb.WriteString("ONT  Run     Last       Last       Last\n")
		sb.WriteString("-----------------------------------------\n")
		for i := 0; i < onts; i++ {
			fmt.Fprintf(&sb, "%d  online  2023-08-15 09:30:00  2023-08-14 22:10:05  dying-gasp\n", i)
		}
		sb.WriteString("ONT        SN        Type  Distance  Rx/Tx power  Description\n")
		sb.WriteString("-----------------------------------------\n")
		for i := 0; i < onts; i++ {
			fmt.Fprintf(&sb, "%d  ABCDEF01234567%02X  1112  %d  -25.3/2.1  Customer %d\n", i, i%256, 100+i, i)
		}
	}
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	text := buildReport(16, 64)
	p := New(false)

	b.ResetTimer()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		records := p.Parse(text, "HWGPON2U-01-PNHHQ")
		if len(records) != 16*64 {
			b.Fatalf("expected %d records, got %d", 16*64, len(records))
		}
	}
}

func BenchmarkDerivePoP(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DerivePoP("HWGPON2U-01-PNHHQ")
	}
}
