/*
 * Copyright 2025 Carver Automation Corporation.
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

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrDstMustBeNonNilPointer   = errors.New("dst must be a non-nil pointer")
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")
	errUnsupportedEnvField      = errors.New("unsupported env field type")
)

var durationType = reflect.TypeOf(time.Duration(0))

// ApplyEnv overrides fields tagged `env:"NAME"` with the value of
// prefix+NAME when that variable is set. Nested structs and non-nil struct
// pointers are walked. Supported kinds are string, bool, integers and any
// int64-based duration type.
func ApplyEnv(prefix string, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	return applyEnvStruct(prefix, v)
}

func applyEnvStruct(prefix string, v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		sf := t.Field(i)

		if !sf.IsExported() {
			continue
		}

		if name, ok := sf.Tag.Lookup("env"); ok {
			raw, set := os.LookupEnv(prefix + name)
			if !set {
				continue
			}

			if err := setFromEnv(field, raw); err != nil {
				return fmt.Errorf("%s%s: %w", prefix, name, err)
			}

			continue
		}

		switch {
		case field.Kind() == reflect.Struct:
			if err := applyEnvStruct(prefix, field); err != nil {
				return err
			}
		case field.Kind() == reflect.Ptr && !field.IsNil() && field.Elem().Kind() == reflect.Struct:
			if err := applyEnvStruct(prefix, field.Elem()); err != nil {
				return err
			}
		}
	}

	return nil
}

func setFromEnv(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Int64:
		if field.Type().ConvertibleTo(durationType) && field.Type().Name() != "int64" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}

			field.SetInt(int64(d))

			return nil
		}

		fallthrough
	case reflect.Int, reflect.Int32:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}

		field.SetInt(n)
	default:
		return errUnsupportedEnvField
	}

	return nil
}
