package model

import (
	"fmt"
)

// foldString implements the Mixed-semantics fold (§3, §8): agreement
// across every reel that contributes a value yields that value;
// disagreement yields Mixed; no reel contributing a value yields
// Unknown.
func foldString(values []string) string {
	var seen string
	has := false
	for _, v := range values {
		if v == "" {
			continue
		}
		if !has {
			seen = v
			has = true
			continue
		}
		if seen != v {
			return Mixed
		}
	}
	if !has {
		return UnknownValue
	}
	return seen
}

// foldPresence folds one "does this reel carry this optional track"
// flag per reel: all-true -> "true", all-false -> Unknown (absent
// everywhere), mixed -> Mixed.
func foldPresence(flags []bool) string {
	var strs []string
	for _, f := range flags {
		if f {
			strs = append(strs, "true")
		} else {
			strs = append(strs, "false")
		}
	}
	allFalse := true
	for _, f := range flags {
		if f {
			allFalse = false
			break
		}
	}
	if allFalse {
		return UnknownValue
	}
	return foldString(strs)
}

// ComputeAggregate folds a CPL's reels into its Aggregate (§4.1 step 8).
// It is called by the parser immediately after a CPL's reels (and their
// resolved assets/probes) are fully populated.
func ComputeAggregate(c *CompositionPlaylist) {
	var (
		editRates    []string
		frameRates   []string
		resolutions  []string
		sar          []string
		stereo       []string
		hfr          []string
		encrypted    []string
		channelCount []string
		channelFmt   []string
		languages    []string
		subLang      []string

		hasSubtitle, hasCC, hasOC, hasAux, hasMarkers, hasMeta []bool

		totalFrames int64
	)

	for _, reel := range c.Reels {
		pic := reel.Picture()
		if pic != nil {
			editRates = append(editRates, pic.EditRate.String())
			if pic.FrameRate != nil {
				frameRates = append(frameRates, pic.FrameRate.String())
			}
			if pic.Probe != nil {
				resolutions = append(resolutions, fmt.Sprintf("%dx%d", pic.Probe.Width, pic.Probe.Height))
			}
			if pic.ScreenAspectRatio != nil {
				sar = append(sar, fmt.Sprintf("%.3f", *pic.ScreenAspectRatio))
			}
			stereo = append(stereo, fmt.Sprintf("%v", pic.Stereoscopic))
			hfr = append(hfr, fmt.Sprintf("%v", pic.HighFrameRate))
			encrypted = append(encrypted, fmt.Sprintf("%v", pic.Encrypted()))
			totalFrames += pic.Duration
		}

		snd := reel.Sound()
		if snd != nil {
			channelCount = append(channelCount, fmt.Sprintf("%d", snd.ChannelCount))
			channelFmt = append(channelFmt, snd.ChannelFormat)
			if snd.Language != nil {
				languages = append(languages, *snd.Language)
			}
		}

		sub := reel.Subtitle()
		hasSubtitle = append(hasSubtitle, sub != nil)
		if sub != nil && sub.Language != nil {
			subLang = append(subLang, *sub.Language)
		}

		hasCC = append(hasCC, reel.Has(EssenceClosedCaption))
		hasOC = append(hasOC, reel.Has(EssenceOpenCaption))
		hasAux = append(hasAux, reel.Has(EssenceAuxData))
		hasMarkers = append(hasMarkers, reel.Has(EssenceMarkers))
		hasMeta = append(hasMeta, reel.Has(EssenceMetadata))
	}

	c.Aggregate = Aggregate{
		EditRate:          foldString(editRates),
		FrameRate:         foldString(frameRates),
		Resolution:        foldString(resolutions),
		ScreenAspectRatio: foldString(sar),
		Stereoscopic:      foldString(stereo),
		HighFrameRate:     foldString(hfr),
		Encrypted:         foldString(encrypted),
		ChannelCount:      foldString(channelCount),
		ChannelFormat:     foldString(channelFmt),
		Language:          foldString(languages),
		SubtitleLanguage:  foldString(subLang),

		HasSubtitle:      foldPresence(hasSubtitle),
		HasClosedCaption: foldPresence(hasCC),
		HasOpenCaption:   foldPresence(hasOC),
		HasAuxData:       foldPresence(hasAux),
		HasMarkers:       foldPresence(hasMarkers),
		HasMetadata:      foldPresence(hasMeta),

		TotalDurationFrames: totalFrames,
	}

	if rate, ok := c.EditRateRatio(); ok {
		c.Aggregate.TotalDurationTC = frameCountToTimecode(totalFrames, rate)
	}
}

func frameCountToTimecode(frames int64, rate interface {
	Float() float64
}) string {
	fps := rate.Float()
	if fps <= 0 {
		return "00:00:00:00"
	}
	totalSeconds := float64(frames) / fps
	hh := int64(totalSeconds) / 3600
	mm := (int64(totalSeconds) % 3600) / 60
	ss := int64(totalSeconds) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}
