/*
 * Copyright 2023 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package maps bridges between loose key-value configuration maps and
// the typed config structs of model builders.
// 包 maps 在松散的键值配置映射与模型构建器的类型化配置结构之间架桥。
package maps

import (
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// Map2Struct decodes a map into the target struct. Decoding is weakly
// typed ("3" decodes into an int field) and honors json tags, matching
// the behavior of the JSON model-tree definitions.
// Map2Struct 将映射解码到目标结构。解码是弱类型的（"3" 可解码为 int 字段）
// 并遵循 json 标签，与 JSON 模型树定义的行为一致。
func Map2Struct(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Struct2Map encodes a struct into a map keyed by json tags, used when
// serializing builder configs back into model-tree definitions.
func Struct2Map(input interface{}) map[string]interface{} {
	if input == nil {
		return nil
	}
	s := structs.New(input)
	s.TagName = "json"
	return s.Map()
}

// Copy copies all key-value pairs from src into dst.
func Copy(dst map[string]any, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
