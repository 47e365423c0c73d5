package thumbnail

import (
	"context"
	"fmt"

	"github.com/playcast/playcast/internal/models"
	"resty.dev/v3"
)

const openAIImagesURL = "https://api.openai.com/v1/images/generations"

// OpenAIProvider generates a playlist cover with the DALL·E 3 image API.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewOpenAIProvider creates the generative-image provider.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: openAIImagesURL,
		client:  resty.New(),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Attempt generates one image and downloads its bytes.
//
// Quota exhaustion, auth failures and malformed responses are ordinary errors
// here; the resolver advances the chain on any of them.
func (p *OpenAIProvider) Attempt(ctx context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error) {
	prompt := fmt.Sprintf(
		"A visually stunning, cinematic music playlist cover art for a playlist called %q. "+
			"Abstract, vibrant colors, no text, suitable as a video background. 16:9 aspect ratio feel.",
		playlist.CleanName(),
	)

	var result imageGenerationResponse
	res, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetBody(imageGenerationRequest{
			Model:   "dall-e-3",
			Prompt:  prompt,
			Size:    "1792x1024",
			Quality: "standard",
			N:       1,
		}).
		SetResult(&result).
		Post(p.baseURL)

	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("openai status %d: %s", res.StatusCode(), res.String())
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, fmt.Errorf("openai returned no image URL")
	}

	data, err := downloadImage(ctx, p.client, result.Data[0].URL)
	if err != nil {
		return nil, err
	}

	return &models.ThumbnailAsset{Data: data}, nil
}

// downloadImage fetches raw image bytes from a provider-returned URL.
func downloadImage(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	res, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("image download status %d", res.StatusCode())
	}

	data := res.Bytes()
	if len(data) == 0 {
		return nil, fmt.Errorf("image download returned empty body")
	}
	return data, nil
}
