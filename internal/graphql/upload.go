package graphql

import (
	"fmt"
	"sort"
)

// UploadRef associates a file slated for multipart upload with the dotted
// path of its slot inside the variables tree.
type UploadRef struct {
	// Path is the dotted path of the variable slot, e.g. "attachment" or
	// "input.files.0".
	Path string
	// FilePath is the local filesystem path of the file to upload.
	FilePath string
}

// ExtractUploads returns a rewritten copy of params in which every
// Upload-typed parameter's value is replaced by an explicit null, together
// with the extracted upload references. The input is never mutated and the
// walk order is deterministic, so upload part indices are stable for
// identical input.
func ExtractUploads(params *Params) (*Params, []UploadRef) {
	if params.Len() == 0 {
		return params, nil
	}

	rewritten := NewParams()
	var uploads []UploadRef
	for _, name := range params.names {
		value, found := extractValue(name, params.values[name])
		rewritten.Set(name, value)
		uploads = append(uploads, found...)
	}
	return rewritten, uploads
}

// extractValue walks one value, replacing Upload slots and collecting their
// references. The returned value shares no containers with the input.
func extractValue(path string, v any) (any, []UploadRef) {
	switch val := v.(type) {
	case Param:
		if val.TypeName == UploadTypeName {
			filePath, _ := val.Value.(string)
			ref := UploadRef{Path: path, FilePath: filePath}
			return Param{
				Value:     explicitNull{},
				TypeName:  val.TypeName,
				Mandatory: val.Mandatory,
				Sensitive: val.Sensitive,
			}, []UploadRef{ref}
		}
		inner, found := extractValue(path, val.Value)
		return Param{
			Value:     inner,
			TypeName:  val.TypeName,
			Mandatory: val.Mandatory,
			Sensitive: val.Sensitive,
		}, found

	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		result := make(map[string]any, len(val))
		var uploads []UploadRef
		for _, key := range keys {
			child, found := extractValue(path+"."+key, val[key])
			result[key] = child
			uploads = append(uploads, found...)
		}
		return result, uploads

	case []any:
		result := make([]any, len(val))
		var uploads []UploadRef
		for i, child := range val {
			enc, found := extractValue(fmt.Sprintf("%s.%d", path, i), child)
			result[i] = enc
			uploads = append(uploads, found...)
		}
		return result, uploads

	default:
		return v, nil
	}
}
