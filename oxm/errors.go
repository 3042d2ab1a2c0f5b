/*
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package oxm

import "github.com/pkg/errors"

var (
	// ErrShortBuffer is returned when fewer bytes remain than a read needs.
	ErrShortBuffer = errors.New("buffer too short")
	// ErrBadLength is returned when a known field's payload length is
	// neither its width nor twice its width.
	ErrBadLength = errors.New("malformed payload length")
	// ErrFieldMismatch is returned by a codec handed a TLV of another field.
	ErrFieldMismatch = errors.New("field does not match codec")
	// ErrMaskNotAllowed is returned by validation for masks on fields that
	// are not maskable.
	ErrMaskNotAllowed = errors.New("field is not maskable")
	ErrUnknownField   = errors.New("unknown field")
	ErrDuplicateField = errors.New("duplicate field registration")
	ErrRegistrySealed = errors.New("registry is sealed")
)
