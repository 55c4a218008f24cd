package ndiapi

// The structs below reproduce the native NDI ABI bit-for-bit, padding
// included, so that a pointer to one of these can be handed to the dynamically
// loaded C functions exactly as a C compiler would lay it out on amd64/arm64.
// Field names keep the C names in Go style; do not reorder fields.

// sourceT mirrors NDIlib_source_t.
type sourceT struct {
	pNdiName    uintptr
	pURLAddress uintptr
}

// findCreateT mirrors NDIlib_find_create_t.
type findCreateT struct {
	showLocalSources uint8
	_                [7]byte // pad to align pGroups to 8
	pGroups          uintptr
	pExtraIPs        uintptr
}

// recvCreateV3T mirrors NDIlib_recv_create_v3_t.
type recvCreateV3T struct {
	sourceToConnectTo sourceT
	colorFormat       int32
	bandwidth         int32
	allowVideoFields  uint8
	_                 [7]byte // pad to align pNdiRecvName to 8
	pNdiRecvName      uintptr
}

// videoFrameV2T mirrors NDIlib_video_frame_v2_t.
type videoFrameV2T struct {
	xres               int32
	yres               int32
	fourCC             uint32
	frameRateN         int32
	frameRateD         int32
	pictureAspectRatio float32
	frameFormatType    int32
	_                  [4]byte // pad to align timecode to 8
	timecode           int64
	pData              uintptr
	lineStrideInBytes  int32
	_                  [4]byte // pad to align pMetadata to 8
	pMetadata          uintptr
	timestamp          int64
}

// audioFrameV3T mirrors NDIlib_audio_frame_v3_t. Audio is out of scope for
// this bridge (spec.md §1 Non-goals) but the struct is kept so the
// recv_capture_v3 call signature matches the ABI exactly; callers always
// pass a nil pointer for this slot.
type audioFrameV3T struct {
	sampleRate           int32
	noChannels           int32
	noSamples            int32
	_                    [4]byte // pad to align timecode to 8
	timecode             int64
	fourCC               uint32
	_                    [4]byte // pad to align pData to 8
	pData                uintptr
	channelStrideInBytes int32
	_                    [4]byte // pad to align pMetadata to 8
	pMetadata            uintptr
	timestamp            int64
}

// metadataFrameT mirrors NDIlib_metadata_frame_t. Metadata is out of scope
// (spec.md §1 Non-goals); kept for the same ABI-fidelity reason as audio.
type metadataFrameT struct {
	length   int32
	_        [4]byte // pad to align timecode to 8
	timecode int64
	pData    uintptr
}
