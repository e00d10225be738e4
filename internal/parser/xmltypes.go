package parser

import "encoding/xml"

// The following are the raw encoding/xml unmarshal targets for each
// descriptor kind. They are intentionally loose (many optional string
// fields) since the parser's job is soft-fail per descriptor, not strict
// schema validation — that belongs to the check modules (§4.1 "a
// descriptor that cannot be parsed yields a None in its list").

type xmlAssetMap struct {
	XMLName     xml.Name        `xml:"AssetMap"`
	Creator     string          `xml:"Creator"`
	VolumeCount int             `xml:"VolumeCount"`
	AssetList   []xmlAMAsset    `xml:"AssetList>Asset"`
}

type xmlAMAsset struct {
	Id          string `xml:"Id"`
	PackingList *struct{} `xml:"PackingList"`
	ChunkList   struct {
		Chunks []xmlChunk `xml:"Chunk"`
	} `xml:"ChunkList"`
}

type xmlChunk struct {
	Path        string `xml:"Path"`
	VolumeIndex int    `xml:"VolumeIndex"`
	Offset      int64  `xml:"Offset"`
	Length      int64  `xml:"Length"`
}

type xmlVolumeIndex struct {
	XMLName xml.Name `xml:"VolumeIndex"`
	Index   int      `xml:"Index"`
}

type xmlPKL struct {
	XMLName   xml.Name    `xml:"PackingList"`
	Id        string      `xml:"Id"`
	IssueDate string      `xml:"IssueDate"`
	Issuer    string      `xml:"Issuer"`
	Creator   string      `xml:"Creator"`
	AssetList []xmlPKLAsset `xml:"AssetList>Asset"`
	Signer    *xmlSigner    `xml:"Signer"`
	Signature *xmlSignature `xml:"Signature"`
}

type xmlPKLAsset struct {
	Id       string `xml:"Id"`
	Hash     string `xml:"Hash"`
	Size     int64  `xml:"Size"`
	MIMEType string `xml:"Type"`
}

type xmlCPL struct {
	XMLName        xml.Name  `xml:"CompositionPlaylist"`
	Id             string    `xml:"Id"`
	ContentTitle   string    `xml:"ContentTitleText"`
	AnnotationText string    `xml:"AnnotationText"`
	IssueDate      string    `xml:"IssueDate"`
	Issuer         string    `xml:"Issuer"`
	Creator        string    `xml:"Creator"`
	ReelList       []xmlReel `xml:"ReelList>Reel"`
	Signer         *xmlSigner    `xml:"Signer"`
	Signature      *xmlSignature `xml:"Signature"`
}

type xmlReel struct {
	Id     string `xml:"Id"`
	Assets xmlAssetList `xml:"AssetList"`
}

// xmlAssetList intentionally lists every possible reel asset slot as an
// optional element; reelAssetEntries (in cpl.go) maps each present element to
// its EssenceKind.
type xmlAssetList struct {
	MainPicture        *xmlCPLAsset `xml:"MainPicture"`
	MainStereoscopicPicture *xmlCPLAsset `xml:"MainStereoscopicPicture"`
	MainSound          *xmlCPLAsset `xml:"MainSound"`
	AuxData            *xmlCPLAsset `xml:"AuxData"`
	MainSubtitle       *xmlCPLAsset `xml:"MainSubtitle"`
	ClosedCaption      *xmlCPLAsset `xml:"ClosedCaption"`
	MainClosedCaption  *xmlCPLAsset `xml:"MainClosedCaption"`
	MainMarkers        *xmlCPLAsset `xml:"MainMarkers"`
}

type xmlCPLAsset struct {
	Id                   string `xml:"Id"`
	AnnotationText       string `xml:"AnnotationText"`
	EditRate             string `xml:"EditRate"`
	IntrinsicDuration    int64  `xml:"IntrinsicDuration"`
	EntryPoint           int64  `xml:"EntryPoint"`
	Duration             int64  `xml:"Duration"`
	KeyId                string `xml:"KeyId"`
	Hash                 string `xml:"Hash"`
	FrameRate            string `xml:"FrameRate"`
	ScreenAspectRatio    string `xml:"ScreenAspectRatio"`
	Language             string `xml:"Language"`
	SamplingRate         string `xml:"AudioSamplingRate"`
}

type xmlSigner struct {
	X509IssuerSerial struct {
		X509IssuerName   string `xml:"X509IssuerName"`
		X509SerialNumber string `xml:"X509SerialNumber"`
	} `xml:"X509IssuerSerial"`
}

type xmlSignature struct {
	SignedInfo struct {
		CanonicalizationMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"CanonicalizationMethod"`
		SignatureMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"SignatureMethod"`
		Reference struct {
			DigestMethod struct {
				Algorithm string `xml:"Algorithm,attr"`
			} `xml:"DigestMethod"`
			DigestValue string `xml:"DigestValue"`
		} `xml:"Reference"`
	} `xml:"SignedInfo"`
	SignatureValue string `xml:"SignatureValue"`
	KeyInfo        struct {
		X509Data struct {
			X509Certificates []string `xml:"X509Certificate"`
		} `xml:"X509Data"`
	} `xml:"KeyInfo"`
}

type xmlKDM struct {
	XMLName            xml.Name `xml:"DCinemaSecurityMessage"`
	AuthenticatedPublic struct {
		RequiredExtensions struct {
			CompositionPlaylistId string `xml:"CompositionPlaylistId"`
			ContentKeysNotValidBefore string `xml:"ContentKeysNotValidBefore"`
			ContentKeysNotValidAfter  string `xml:"ContentKeysNotValidAfter"`
			KeyIdList struct {
				TypedKeyIds []xmlTypedKeyId `xml:"TypedKeyId"`
			} `xml:"KeyIdList"`
		} `xml:"RequiredExtensions"`
	} `xml:"AuthenticatedPublic"`
	AuthenticatedPrivate struct {
		EncryptedKey []string `xml:"EncryptedData>CipherData>CipherValue"`
	} `xml:"AuthenticatedPrivate"`
}

type xmlTypedKeyId struct {
	KeyType   string `xml:"KeyType"`
	KeyId     string `xml:"KeyId"`
	StructureId string `xml:"StructureId"`
}
