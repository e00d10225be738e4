package checks

import (
	"fmt"
	"time"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/isdcf"
	"github.com/Ymagis/ClairMeta/internal/model"
)

func init() {
	registerCPL("check_dcnc_fields_parsed", "every ISDCF field was aligned without error", checkNamingFieldsParsed)
	registerCPL("check_dcnc_field_resolution", "ISDCF Resolution field matches the actual picture resolution", checkNamingResolution)
	registerCPL("check_dcnc_field_subtitle", "ISDCF subtitle qualifier matches actual subtitle presence", checkNamingSubtitlePresence)
	registerCPL("check_dcnc_field_audio_channels", "ISDCF audio qualifier matches the actual channel count class", checkNamingAudioChannels)
	registerCPL("check_dcnc_field_date_future", "ISDCF Date field is not in the future", checkNamingDateNotFuture)
}

func checkNamingFieldsParsed(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.ISDCF == nil {
		ctx.Error("ContentTitleText could not be parsed against the naming convention")
		return
	}
	for field, msg := range cpl.ISDCF.Errors {
		ctx.Errorf("ISDCF field %s: %s", field, msg)
	}
}

func checkNamingResolution(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.ISDCF == nil {
		return
	}
	res, ok := cpl.ISDCF.Get(isdcf.FieldResolution)
	if !ok {
		return
	}
	is4K := res == "4K"
	actual4K := cpl.Aggregate.Resolution != "" && cpl.Aggregate.Resolution != model.UnknownValue &&
		!is2KResolutionString(cpl.Aggregate.Resolution)
	if is4K != actual4K {
		ctx.Errorf("ISDCF Resolution field %q does not match the actual picture resolution %q", res, cpl.Aggregate.Resolution)
	}
}

func is2KResolutionString(s string) bool {
	return s == "2048x858" || s == "2048x1080" || s == "1998x1080"
}

func checkNamingSubtitlePresence(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.ISDCF == nil {
		return
	}
	if cpl.ISDCF.HasSubtitle != (cpl.Aggregate.HasSubtitle == "true") {
		ctx.Errorf("ISDCF title implies subtitle-presence=%v but the CPL's actual subtitle presence is %q", cpl.ISDCF.HasSubtitle, cpl.Aggregate.HasSubtitle)
	}
}

func checkNamingAudioChannels(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.ISDCF == nil {
		return
	}
	audio, ok := cpl.ISDCF.Get(isdcf.FieldAudioType)
	if !ok {
		return
	}
	min := minChannelsForAudioClaim(audio)
	if min == 0 || cpl.Aggregate.ChannelCount == model.Mixed || cpl.Aggregate.ChannelCount == model.UnknownValue {
		return
	}
	var actual int
	_, err := fmt.Sscanf(cpl.Aggregate.ChannelCount, "%d", &actual)
	if err == nil && actual < min {
		ctx.Errorf("ISDCF audio qualifier %q implies at least %d channels, actual CPL aggregate is %q", audio, min, cpl.Aggregate.ChannelCount)
	}
}

func minChannelsForAudioClaim(audio string) int {
	switch audio {
	case "51":
		return 6
	case "71":
		return 8
	case "61":
		return 7
	default:
		return 0
	}
}

func checkNamingDateNotFuture(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.ISDCF == nil {
		return
	}
	date, ok := cpl.ISDCF.Get(isdcf.FieldDate)
	if !ok || len(date) != 8 {
		return
	}
	t, err := time.Parse("20060102", date)
	if err != nil {
		return
	}
	if t.After(time.Now()) {
		ctx.Errorf("ISDCF Date field %s is in the future", date)
	}
}
