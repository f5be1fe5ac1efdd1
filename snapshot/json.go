// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/negfound/negsim/flags"
	"github.com/negfound/negsim/fxp"
	"github.com/negfound/negsim/grid"
	"github.com/negfound/negsim/kernel"
)

// hexU64 marshals as a "0x..." string, preserving full 64-bit precision for
// JSON clients backed only by IEEE-754 doubles (spec.md §4.2).
type hexU64 uint64

func (h hexU64) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("0x%x", uint64(h)))
}

func (h *hexU64) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return fmt.Errorf("snapshot: bad hex u64 %q: %w", s, err)
	}
	*h = hexU64(v)
	return nil
}

// jsonCell mirrors grid.Cell field-for-field; plain float64 fields need no
// hex encoding since JSON numbers already carry full double precision.
type jsonCell struct {
	Theta    float64 `json:"theta"`
	Psi      float64 `json:"psi"`
	HSurface float64 `json:"h_surface"`
	Zeta     float64 `json:"zeta"`

	Ks      float64 `json:"ks"`
	AlphaVG float64 `json:"alpha_vg"`
	NVG     float64 `json:"n_vg"`
	ThetaS  float64 `json:"theta_s"`
	ThetaR  float64 `json:"theta_r"`
	Z       float64 `json:"z"`
	Dz      float64 `json:"dz"`
	Dx      float64 `json:"dx"`
	ZetaC   float64 `json:"zeta_c"`
	Ac      float64 `json:"ac"`

	MKzz      float64 `json:"m_kzz"`
	MKxx      float64 `json:"m_kxx"`
	KappaEvap float64 `json:"kappa_evap"`
	DeltaZeta float64 `json:"delta_zeta"`

	VegetationCoverFxp int32   `json:"vegetation_cover_fxp"`
	VegetationCover    float64 `json:"vegetation_cover"`
	SOMPercentFxp      int32   `json:"som_percent_fxp"`
	SOMPercent         float64 `json:"som_percent"`

	FungalBacterialRatio float64 `json:"fungal_bacterial_ratio"`
	CLabile              float64 `json:"c_labile"`
	NFix                 float64 `json:"n_fix"`
	PhiAgg               float64 `json:"phi_agg"`
	TempK                float64 `json:"temp_k"`
	O2Sat                float64 `json:"o2_sat"`

	PorosityEff float64    `json:"porosity_eff"`
	KTensor     [9]float64 `json:"k_tensor"`
}

func toJSONCell(c *grid.Cell) jsonCell {
	return jsonCell{
		Theta: c.Theta, Psi: c.Psi, HSurface: c.HSurface, Zeta: c.Zeta,
		Ks: c.Ks, AlphaVG: c.AlphaVG, NVG: c.NVG, ThetaS: c.ThetaS, ThetaR: c.ThetaR,
		Z: c.Z, Dz: c.Dz, Dx: c.Dx, ZetaC: c.ZetaC, Ac: c.Ac,
		MKzz: c.MKzz, MKxx: c.MKxx, KappaEvap: c.KappaEvap, DeltaZeta: c.DeltaZeta,
		VegetationCoverFxp: int32(c.VegetationCoverFxp), VegetationCover: c.VegetationCover,
		SOMPercentFxp: int32(c.SOMPercentFxp), SOMPercent: c.SOMPercent,
		FungalBacterialRatio: c.FungalBacterialRatio, CLabile: c.CLabile, NFix: c.NFix,
		PhiAgg: c.PhiAgg, TempK: c.TempK, O2Sat: c.O2Sat,
		PorosityEff: c.PorosityEff, KTensor: c.KTensor,
	}
}

func (j jsonCell) into(c *grid.Cell) {
	c.Theta, c.Psi, c.HSurface, c.Zeta = j.Theta, j.Psi, j.HSurface, j.Zeta
	c.Ks, c.AlphaVG, c.NVG, c.ThetaS, c.ThetaR = j.Ks, j.AlphaVG, j.NVG, j.ThetaS, j.ThetaR
	c.Z, c.Dz, c.Dx, c.ZetaC, c.Ac = j.Z, j.Dz, j.Dx, j.ZetaC, j.Ac
	c.MKzz, c.MKxx, c.KappaEvap, c.DeltaZeta = j.MKzz, j.MKxx, j.KappaEvap, j.DeltaZeta
	c.VegetationCoverFxp = fxp.T(j.VegetationCoverFxp)
	c.VegetationCover = j.VegetationCover
	c.SOMPercentFxp = fxp.T(j.SOMPercentFxp)
	c.SOMPercent = j.SOMPercent
	c.FungalBacterialRatio, c.CLabile, c.NFix = j.FungalBacterialRatio, j.CLabile, j.NFix
	c.PhiAgg, c.TempK, c.O2Sat = j.PhiAgg, j.TempK, j.O2Sat
	c.PorosityEff = j.PorosityEff
	c.KTensor = j.KTensor
}

// JSONSnapshot is the debugging/interop wire shape of spec.md §4.2.
type JSONSnapshot struct {
	Magic       string `json:"magic"`
	Version     uint32 `json:"version"`
	TimestampMs hexU64 `json:"timestamp_ms"`
	Hash        hexU64 `json:"hash"`

	Tick             hexU64 `json:"tick"`
	TimestampUs      hexU64 `json:"timestamp_us"`
	PRNGState        hexU64 `json:"prng_state"`
	Flags            uint32 `json:"flags"`
	Frozen           bool   `json:"frozen"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Depth            int    `json:"depth"`
	RegCallFrequency int    `json:"reg_call_frequency"`

	Cells []jsonCell `json:"cells"`
}

// EncodeJSON renders a scheduler's full state as the debugging/interop
// JSON snapshot, hashing the same deterministic binary DATA section Encode
// would produce so the two formats always agree on a simulation's hash.
func EncodeJSON(s *kernel.Scheduler, timestampMs uint64) ([]byte, error) {
	binPayload, err := Encode(s, timestampMs)
	if err != nil {
		return nil, err
	}
	hash := hexU64(bytesToUint64LE(binPayload[20:28]))

	cells := make([]jsonCell, len(s.Grid.Cells))
	for i := range s.Grid.Cells {
		cells[i] = toJSONCell(&s.Grid.Cells[i])
	}
	out := JSONSnapshot{
		Magic: Magic, Version: Version,
		TimestampMs: hexU64(timestampMs), Hash: hash,
		Tick: hexU64(s.Tick), TimestampUs: hexU64(s.TimestampUs),
		PRNGState: hexU64(s.PRNG.State()), Flags: uint32(s.Flags), Frozen: s.Frozen,
		Width: s.Grid.Width, Height: s.Grid.Height, Depth: s.Grid.Depth,
		RegCallFrequency: s.RegCallFrequency,
		Cells:            cells,
	}
	return json.Marshal(out)
}

// DecodeJSON restores a scheduler from a JSONSnapshot produced by
// EncodeJSON. Unlike Decode, no hash is recomputed here: the JSON format is
// for debugging/interop (spec.md §4.2), and authoritative verification goes
// through Decode's binary hash check.
func DecodeJSON(data []byte, s *kernel.Scheduler) error {
	var in JSONSnapshot
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Magic != Magic {
		return ErrMagic
	}
	if in.Version != Version {
		return ErrVersion
	}
	if in.Width != s.Grid.Width || in.Height != s.Grid.Height || in.Depth != s.Grid.Depth {
		return ErrShape
	}
	if len(in.Cells) != len(s.Grid.Cells) {
		return ErrShape
	}
	for i := range in.Cells {
		in.Cells[i].into(&s.Grid.Cells[i])
	}
	s.RegCallFrequency = in.RegCallFrequency
	s.Tick = uint64(in.Tick)
	s.TimestampUs = uint64(in.TimestampUs)
	s.Flags = flags.Bits(in.Flags)
	s.Frozen = in.Frozen
	s.PRNG.Restore(uint64(in.PRNGState))
	return nil
}

func bytesToUint64LE(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
