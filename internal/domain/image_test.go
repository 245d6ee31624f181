package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDataURIRoundTrip(t *testing.T) {
	img := UploadedImage{MIMEType: MIMETypePNG, Data: []byte{1, 2, 3, 4}}
	uri := img.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected uri: %s", uri)
	}
	back, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI error: %v", err)
	}
	if back.MIMEType != MIMETypePNG || !bytes.Equal(back.Data, img.Data) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestParseDataURIDefaultsToJPEG(t *testing.T) {
	img, err := ParseDataURI("data:;base64,AQID")
	if err != nil {
		t.Fatalf("ParseDataURI error: %v", err)
	}
	if img.MIMEType != MIMETypeJPEG {
		t.Fatalf("expected jpeg fallback, got %s", img.MIMEType)
	}
}

func TestParseDataURIRejectsMalformed(t *testing.T) {
	for _, uri := range []string{"", "data:image/png;base64", "image/png;base64,AQID", "data:image/png;base64,@@@"} {
		if _, err := ParseDataURI(uri); !errors.Is(err, ErrInvalidImageData) {
			t.Fatalf("ParseDataURI(%q) expected ErrInvalidImageData, got %v", uri, err)
		}
	}
}

func TestCloneDoesNotShareMemory(t *testing.T) {
	img := UploadedImage{MIMEType: MIMETypeJPEG, Data: []byte{9, 9}}
	cp := img.Clone()
	cp.Data[0] = 1
	if img.Data[0] != 9 {
		t.Fatalf("clone shares backing array")
	}
	if (UploadedImage{}).DataURI() != "" {
		t.Fatalf("empty image should render no uri")
	}
}

func TestGenerationFailedErrorUnwraps(t *testing.T) {
	last := errors.New("boom")
	err := error(&GenerationFailedError{Attempts: 3, Last: last})
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, last) {
		t.Fatalf("unwrap chain broken: %v", err)
	}
	if !IsValidation(ErrPromptTooShort) || IsValidation(err) {
		t.Fatalf("IsValidation misclassified")
	}
}
